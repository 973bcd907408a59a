package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/mailer"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("incorrect password")
)

// UserService covers signup, signin and account queries. The welcome email is
// fire-and-forget: a nil publisher (broker not configured) degrades to a log
// line, never to a failed signup.
type UserService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Pub: pub, Logger: logger}
}

// Signup creates a local account. The duplicate check races with concurrent
// signups; the unique constraint on users.email decides the winner and the
// loser sees ErrUserExists either way.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		Provider: entity.ProviderLocal,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.sendWelcome(ctx, u)
	return u, nil
}

func (s *UserService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	if err := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Email, u.Username)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

// Signin validates credentials and issues an identity token.
// ErrUserNotFound and ErrWrongPassword stay distinct so the handler can keep
// the original 400/401 split.
func (s *UserService) Signin(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrWrongPassword
	}

	token, exp, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// IssueToken signs an identity token for an already-authenticated user
// (used by the OAuth callback).
func (s *UserService) IssueToken(u *entity.User) (string, time.Time, error) {
	return s.JWT.Issue(u.ID, u.Email)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SessionUser resolves a raw token to its user, or nil for any failure.
// The /session endpoint never errors; it just reports unauthenticated.
func (s *UserService) SessionUser(ctx context.Context, token string) *entity.User {
	if token == "" {
		return nil
	}
	claims, err := s.JWT.Verify(token)
	if err != nil {
		return nil
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil
	}
	return u
}

func (s *UserService) AllUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.ListAll(ctx)
}
