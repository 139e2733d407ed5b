package entities

import "fmt"

// AuthKind selects how requests to the hosting service are authenticated.
type AuthKind string

const (
	AuthToken AuthKind = "token"
	AuthBasic AuthKind = "basic"
)

// Credentials holds either an access token or a username/password pair.
type Credentials struct {
	Kind     AuthKind
	Token    string
	Username string
	Password string
}

// Validate reports whether the fields required by the selected kind are set.
func (c Credentials) Validate() error {
	switch c.Kind {
	case AuthToken:
		if c.Token == "" {
			return fmt.Errorf("%w: token is empty", ErrInvalidCredentials)
		}
	case AuthBasic:
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
		}
	default:
		return fmt.Errorf("%w: unknown authentication kind %q", ErrInvalidCredentials, c.Kind)
	}
	return nil
}
