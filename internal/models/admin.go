package models

import "time"

type Admin struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminResponse is the public view of an admin.
type AdminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *Admin) ToResponse() AdminResponse {
	return AdminResponse{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
	}
}
