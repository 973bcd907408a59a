package repository

import (
	"context"

	"github.com/letmerecall/server/internal/domain/entity"
)

// ContentRepository persists content items and their images. Every read and
// delete is scoped to the owning user id.
type ContentRepository interface {
	// Create persists the content and its images as one transaction; a
	// half-created content without its images must never be observable.
	Create(ctx context.Context, c *entity.Content) error

	// ListByOwner returns the owner's contents newest-first.
	ListByOwner(ctx context.Context, userID string) ([]entity.Content, error)

	// GetByOwnerAndID returns ErrNotFound for both a missing id and an id
	// owned by a different user.
	GetByOwnerAndID(ctx context.Context, userID, id string) (*entity.Content, error)

	// DeleteByOwnerAndID removes the content and its images (images first,
	// to satisfy the foreign key) inside one transaction. ErrNotFound
	// follows the same indistinguishability rule as GetByOwnerAndID.
	DeleteByOwnerAndID(ctx context.Context, userID, id string) error
}
