package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Nickname     string
	Role         Role
	CreatedAt    time.Time
}
