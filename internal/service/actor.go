package service

// Actor identifies the authenticated operator behind a request.
type Actor struct {
	ID       uint
	Username string
	Name     string
}

// System is used for work not triggered by a request (seeding, CLI).
var System = Actor{Username: "system", Name: "System"}

func (a Actor) label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}
