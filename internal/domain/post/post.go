package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyText    = errors.New("text is required")
)

func (p *Post) Validate() error {
	if p.Text == "" {
		return ErrEmptyText
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByUser removes every post of userID and reports how many were removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
