package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

var tracer = otel.Tracer("post_usecase")

type CreatePostUseCase struct {
	postRepo post.Repository
	userRepo user.Repository
	logger   logger.Logger
}

func NewCreatePostUseCase(pRepo post.Repository, uRepo user.Repository, log logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{
		postRepo: pRepo,
		userRepo: uRepo,
		logger:   log,
	}
}

type CreatePostInput struct {
	UserID uuid.UUID `json:"-"`
	Text   string    `json:"text" validate:"required"`
}

var createMessages = validation.Messages{
	"text": "Text is required",
}

// Execute stores a post stamped with the author's current name and avatar.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "CreatePost")
	defer span.End()

	input.Text = strings.TrimSpace(input.Text)
	if err := validation.Check(input, createMessages); err != nil {
		return nil, err
	}

	author, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewUnauthorized("user no longer exists", err)
		}
		return nil, err
	}

	p := &post.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Text:      input.Text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.postRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("post_id", p.ID.String()))
	return p, nil
}
