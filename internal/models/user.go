package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UID         string
	Email       string
	DisplayName string
	Role        string
	Credits     int
	CreatedAt   time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IdentityUser is an account as known to the identity provider.
type IdentityUser struct {
	UID         string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}
