// Package identity wraps the external identity provider. The directory never
// stores credentials; it only records the provider's durable subject per user.
package identity

// Identity is what the provider asserts about a signed-in person.
type Identity struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

// Provider verifies identity tokens and removes identities.
//
// Verify failures are treated by callers as "no identity". Delete is
// best-effort: callers log a failure and move on, because the directory
// mutation that triggered it has already committed.
type Provider interface {
	Verify(token string) (*Identity, error)
	Delete(subject string) error
}
