package domain

import "time"

const RoleAdmin = "ADMIN"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         *string
	Role         string
	CreatedAt    time.Time
}
