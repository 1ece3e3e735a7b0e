package model

import "time"

// Roles recognised by the reservation service.  Customers manage their own
// reservations; owners may list every customer's reservations.
const (
	RoleCustomer = "CUSTOMER"
	RoleOwner    = "OWNER"
)

// User represents an account stored in the `users` table.  Only the
// login handler reads it; the password hash never leaves the server.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash of the password.
//	Role         – CUSTOMER or OWNER.
//	IsActive     – inactive accounts cannot log in.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
