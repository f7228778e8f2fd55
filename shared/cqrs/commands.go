package cqrs

import "github.com/eaglebank/account-api/shared/models"

type CreateAccountCommand struct {
	Name     string
	LastName string
	Email    string
	Password string
	Address  string
	UserType string
}

// UpdateAccountCommand targets the active account currently registered under Email.
type UpdateAccountCommand struct {
	Email  string
	Fields models.AccountUpdateSchema
}

type DeactivateAccountCommand struct {
	Email string
}

type ResetPasswordCommand struct {
	Email       string
	NewPassword string
}
