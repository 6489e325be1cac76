package main

import "motoparts-inventory/cmd/motoctl/commands"

func main() {
	commands.Execute()
}
