package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// DeleteAccountUseCase removes a user's posts, profile and user record, in that order.
type DeleteAccountUseCase struct {
	profileRepo profile.Repository
	postRepo    post.Repository
	userRepo    user.Repository
	projector   *Projector
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewDeleteAccountUseCase(
	profileRepo profile.Repository,
	postRepo post.Repository,
	userRepo user.Repository,
	projector *Projector,
	publisher service.EventPublisher,
	log logger.Logger,
) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		projector:   projector,
		publisher:   publisher,
		logger:      log,
	}
}

type DeleteAccountInput struct {
	UserID uuid.UUID
}

func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount",
		trace.WithAttributes(attribute.String("user_id", input.UserID.String())),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	removedPosts, err := uc.postRepo.DeleteByUser(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// a user who never created a profile can still delete the account
	if err := uc.profileRepo.DeleteByUserID(ctx, input.UserID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		span.RecordError(err)
		return err
	}

	if err := uc.userRepo.Delete(ctx, input.UserID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return err
	}

	uc.projector.Evict(ctx, input.UserID)
	uc.logger.Info("Account deleted",
		zap.String("user_id", input.UserID.String()),
		zap.Int64("posts_removed", removedPosts),
	)

	publish(ctx, uc.publisher, uc.logger, service.ProfileEvent{
		EventType:  service.EventAccountDeleted,
		UserID:     input.UserID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
