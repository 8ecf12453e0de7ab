package user

import "time"

// User represents a registered account.
type User struct {
	ID           string    // ID is the unique identifier for the user
	Name         string    // Name is the display name of the user
	Email        string    // Email is the unique, normalized email address
	PasswordHash string    // PasswordHash is the bcrypt digest, never the plaintext
	CreatedAt    time.Time // CreatedAt is when the account was registered
	UpdatedAt    time.Time
}
