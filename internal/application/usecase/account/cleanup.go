package account

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// ProcessAccountEventUseCase runs in the worker and removes what the request
// path leaves behind after an account is deleted.
type ProcessAccountEventUseCase struct {
	uploader service.Uploader
	cache    user.ProjectionCache
	logger   logger.Logger
}

func NewProcessAccountEventUseCase(uploader service.Uploader, cache user.ProjectionCache, log logger.Logger) *ProcessAccountEventUseCase {
	return &ProcessAccountEventUseCase{uploader: uploader, cache: cache, logger: log}
}

func (uc *ProcessAccountEventUseCase) Execute(ctx context.Context, ev service.ProfileEvent) error {
	if ev.EventType != service.EventAccountDeleted {
		return nil
	}
	log := uc.logger.With(zap.String("user_id", ev.UserID.String()))

	if uc.cache != nil {
		if err := uc.cache.Evict(ctx, ev.UserID); err != nil {
			return fmt.Errorf("evict projection failed: %w", err)
		}
	}

	// deleting a missing asset is not an error for the media store
	if err := uc.uploader.Delete(ctx, AvatarPublicID(ev.UserID)); err != nil {
		return fmt.Errorf("delete avatar failed: %w", err)
	}

	log.Info("Account cleanup finished")
	return nil
}
