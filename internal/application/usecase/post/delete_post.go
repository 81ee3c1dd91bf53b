package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type DeletePostUseCase struct {
	postRepo post.Repository
	logger   logger.Logger
}

func NewDeletePostUseCase(pRepo post.Repository, log logger.Logger) *DeletePostUseCase {
	return &DeletePostUseCase{postRepo: pRepo, logger: log}
}

type DeletePostInput struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

// Only the author may delete a post.
func (uc *DeletePostUseCase) Execute(ctx context.Context, input DeletePostInput) error {
	ctx, span := tracer.Start(ctx, "DeletePost")
	defer span.End()

	p, err := uc.postRepo.FindByID(ctx, input.PostID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound("post", input.PostID.String())
		}
		return err
	}
	if p.UserID != input.UserID {
		return apperror.NewPermissionDenied("user not authorized")
	}

	if err := uc.postRepo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound("post", input.PostID.String())
		}
		span.RecordError(err)
		return err
	}
	uc.logger.Info("Post deleted", zap.String("post_id", p.ID.String()), zap.String("user_id", input.UserID.String()))
	return nil
}
