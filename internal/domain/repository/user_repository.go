package repository

import (
	"context"
	"errors"

	"github.com/letmerecall/server/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Create when the unique email constraint
// is violated. Concurrent signups with the same email race on the database
// constraint, never on application locks.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrNotFound covers missing rows and, for owner-scoped queries, rows owned
// by somebody else. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListAll(ctx context.Context) ([]entity.User, error)
}
