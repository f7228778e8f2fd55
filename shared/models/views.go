package models

import "time"

// AccountView is the read-optimised projection of an account, cached in Redis
// and returned by the API. It never carries the password hash.
type AccountView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	UserType  string    `json:"userType"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// View projects the write model onto its read model.
func (a *Account) View() *AccountView {
	return &AccountView{
		ID:        a.ID,
		Name:      a.Name,
		LastName:  a.LastName,
		Email:     a.Email,
		Address:   a.Address,
		UserType:  a.UserType,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
