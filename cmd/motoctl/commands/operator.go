package commands

import (
	"fmt"

	"motoparts-inventory/internal/service"

	"github.com/spf13/cobra"
)

var (
	// Operator flags
	username string
	password string
	fullName string
)

var cliActor = service.Actor{Username: "motoctl", Name: "motoctl"}

// createOperatorCmd adds a login for the shop
var createOperatorCmd = &cobra.Command{
	Use:   "create-operator",
	Short: "Create an operator account",
	Long: `Create an operator account that can log in to the API.

Examples:
  motoctl create-operator --username cashier --password 's3cretpass' --name "Front Desk"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		operator, err := e.authService().CreateOperator(cmd.Context(), &service.CreateOperatorRequest{
			Username: username,
			Password: password,
			FullName: fullName,
		}, cliActor)
		if err != nil {
			return fmt.Errorf("create operator: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "operator %s created (id %d)\n", operator.Username, operator.ID)
		return nil
	},
}

// resetPasswordCmd sets a new password and ends the operator's session
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an operator",
	Long: `Set a new password for an operator. Any open session is ended.

Examples:
  motoctl reset-password --username admin --password 'n3wpassword'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.authService().SetPassword(cmd.Context(), username, password, cliActor); err != nil {
			return fmt.Errorf("reset password: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password for %s has been reset\n", username)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createOperatorCmd, resetPasswordCmd} {
		c.Flags().StringVarP(&username, "username", "u", "", "Operator username")
		c.Flags().StringVarP(&password, "password", "p", "", "Password (min 8 characters)")
		_ = c.MarkFlagRequired("username")
		_ = c.MarkFlagRequired("password")
	}
	createOperatorCmd.Flags().StringVar(&fullName, "name", "", "Full name shown in the UI")
}
