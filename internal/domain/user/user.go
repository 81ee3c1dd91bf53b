package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Projection is the public subset of a user shown next to their content.
type Projection struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

func (u *User) Projection() Projection {
	return Projection{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindProjections returns the projections of the users that exist; unknown ids are skipped.
	FindProjections(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Projection, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectionCache is a read-through cache in front of Repository.FindProjections.
type ProjectionCache interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Projection, error)
	SetMany(ctx context.Context, projections []Projection) error
	Evict(ctx context.Context, id uuid.UUID) error
}
