package cqrs

// AccountExistsQuery asks whether any account, active or not, owns Email.
type AccountExistsQuery struct {
	Email string
}

// ListActiveAccountsQuery fetches every account that has not been deactivated.
type ListActiveAccountsQuery struct{}

// AuthenticateQuery checks a credential pair. It never mutates state, so it lives
// on the query side like the rest of the read operations.
type AuthenticateQuery struct {
	Email    string
	Password string
}
