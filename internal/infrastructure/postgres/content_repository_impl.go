package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
)

type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

// Create inserts the content row and its image rows in one transaction, so a
// failed image insert rolls the whole creation back.
func (r *ContentRepository) Create(ctx context.Context, c *entity.Content) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO contents (title, type, description, url, user_id)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id, created_at
	`, c.Title, c.Type, c.Description, c.URL, c.UserID)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return err
	}

	for i := range c.Images {
		img := &c.Images[i]
		img.UserID = c.UserID
		img.ContentID = c.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO content_images (public_id, url, user_id, content_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, img.PublicID, img.URL, img.UserID, img.ContentID)
		if err := row.Scan(&img.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ContentRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Content, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, type, COALESCE(description, ''), COALESCE(url, ''), user_id, created_at
		FROM contents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []entity.Content
	for rows.Next() {
		var c entity.Content
		if err := rows.Scan(&c.ID, &c.Title, &c.Type, &c.Description, &c.URL, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func (r *ContentRepository) GetByOwnerAndID(ctx context.Context, userID, id string) (*entity.Content, error) {
	c := &entity.Content{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, type, COALESCE(description, ''), COALESCE(url, ''), user_id, created_at
		FROM contents
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err := row.Scan(&c.ID, &c.Title, &c.Type, &c.Description, &c.URL, &c.UserID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	imgs, err := r.imagesFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Images = imgs
	return c, nil
}

func (r *ContentRepository) imagesFor(ctx context.Context, contentID string) ([]entity.ContentImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, public_id, url, user_id, content_id
		FROM content_images
		WHERE content_id = $1
	`, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imgs []entity.ContentImage
	for rows.Next() {
		var img entity.ContentImage
		if err := rows.Scan(&img.ID, &img.PublicID, &img.URL, &img.UserID, &img.ContentID); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// DeleteByOwnerAndID verifies ownership, then removes images before the
// parent row. A row owned by someone else reports the same ErrNotFound as a
// missing one, so existence never leaks across owners.
func (r *ContentRepository) DeleteByOwnerAndID(ctx context.Context, userID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var owned bool
	row := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM contents WHERE id = $1 AND user_id = $2)
	`, id, userID)
	if err := row.Scan(&owned); err != nil {
		return err
	}
	if !owned {
		return repository.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM content_images WHERE content_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

var _ repository.ContentRepository = (*ContentRepository)(nil)
