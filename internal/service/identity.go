package service

import (
	"github.com/google/uuid"

	"github.com/dkotenko/snipvault/internal/models"
)

// Identity is the resolved caller: the only value downstream authorization
// decisions operate on. Transient, never persisted.
type Identity struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}

func IdentityOf(u *models.User) Identity {
	return Identity{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
