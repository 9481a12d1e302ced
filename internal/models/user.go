package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	AuthID    string    `bun:"auth_id,unique,notnull" json:"auth_id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Username  string    `bun:"username,notnull" json:"username"`
	FirstName string    `bun:"first_name,notnull" json:"first_name"`
	LastName  string    `bun:"last_name,notnull" json:"last_name"`
	Photo     string    `bun:"photo,nullzero" json:"photo,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// FullName is what order search matches against.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type CreateUserRequest struct {
	AuthID    string `json:"auth_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo     string `json:"photo,omitempty"`
}

type UpdateUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Photo     string `json:"photo,omitempty"`
}
