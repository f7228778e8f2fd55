package models

import "time"

const (
	UserTypeAdmin    = "admin"
	UserTypeStandard = "standard"
)

// Account is the write model. PasswordHash never leaves the service.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address,omitempty"`
	UserType     string    `json:"userType"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// AccountSchema is the shape an account must have before it is stored.
type AccountSchema struct {
	Name     string `json:"name" validate:"required,max=100"`
	LastName string `json:"lastName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	UserType string `json:"userType" validate:"required,oneof=admin standard"`
}

// AccountUpdateSchema is the partial form of AccountSchema accepted by updates.
// Nil fields are left untouched.
type AccountUpdateSchema struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	LastName *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	UserType *string `json:"userType" validate:"omitempty,oneof=admin standard"`
}

// AuthResult is the outcome of a credential check. A non-empty Failure means the
// credentials were rejected; everything else is only set on success.
type AuthResult struct {
	Token    string
	UserType string
	Name     string
	LastName string
	Email    string
	Failure  string
}

func (r *AuthResult) OK() bool {
	return r.Failure == ""
}
