package entity

import (
	"time"
)

// Account providers. OAuth accounts keep a placeholder bcrypt hash in
// Password so the NOT NULL column is satisfied without enabling local signin.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID             string
	Username       string
	Email          string
	Password       string
	IsMailVerified bool
	Provider       string
	ProviderID     string
	CreatedAt      time.Time
}
