// Package oauth implements the authorization-code flow against external
// identity providers and normalizes their profile shapes.
//
// Each provider speaks its own dialect (Google's userinfo endpoint, GitHub's
// /user API with optionally hidden emails). A Provider implementation hides
// those details and hands the rest of the system one canonical Profile.
package oauth

import (
	"context"
	"errors"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// ErrNoEmail means the provider could not produce any usable email address.
// The login attempt fails as an authentication failure, not a server error.
var ErrNoEmail = errors.New("no email in provider profile")

// Profile is the canonical provider profile shape consumed by the account
// linker. ProviderID is the provider's stable external user id, always
// stringified.
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	Username   string
}

// Provider drives the redirect flow for one identity provider.
type Provider interface {
	// Name returns the stable provider identifier, e.g. "google".
	Name() string

	// AuthURL builds the provider consent URL for the given CSRF state.
	AuthURL(state string) string

	// Exchange trades the callback authorization code for a normalized
	// profile. Returns ErrNoEmail when no email can be extracted.
	Exchange(ctx context.Context, code string) (*Profile, error)
}
