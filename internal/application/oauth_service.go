package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/oauth"
)

// OAuthService links provider profiles to local accounts.
type OAuthService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewOAuthService(repo repository.UserRepository, logger *logrus.Logger) *OAuthService {
	return &OAuthService{Repo: repo, Logger: logger}
}

// LinkOrCreate returns the account matching the profile email, creating one
// on first login. Repeat logins return the existing account unchanged; the
// provider fields are not merged or updated. New accounts get a placeholder
// password hash so local signin stays impossible for them.
func (s *OAuthService) LinkOrCreate(ctx context.Context, p *oauth.Profile) (*entity.User, error) {
	if u, err := s.Repo.GetByEmail(ctx, p.Email); err == nil && u != nil {
		return u, nil
	}

	placeholder, err := helpers.GeneratePlaceholderHash()
	if err != nil {
		return nil, err
	}

	username := p.Username
	if username == "" {
		username = "user-" + p.ProviderID
	}

	u := &entity.User{
		Username:       username,
		Email:          p.Email,
		Password:       placeholder,
		IsMailVerified: true,
		Provider:       p.Provider,
		ProviderID:     p.ProviderID,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent first login for the same email
		if u2, gerr := s.Repo.GetByEmail(ctx, p.Email); gerr == nil && u2 != nil {
			return u2, nil
		}
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":  u.ID,
			"provider": p.Provider,
		}).Info("created account from oauth profile")
	}
	return u, nil
}
