package account

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const avatarName = "avatar"

func AvatarFolder(userID uuid.UUID) string {
	return fmt.Sprintf("users/%s", userID.String())
}

// AvatarPublicID is the media-storage id of an uploaded avatar.
func AvatarPublicID(userID uuid.UUID) string {
	return AvatarFolder(userID) + "/" + avatarName
}

type UploadAvatarUseCase struct {
	userRepo user.Repository
	cache    user.ProjectionCache
	uploader service.Uploader
	logger   logger.Logger
}

func NewUploadAvatarUseCase(repo user.Repository, cache user.ProjectionCache, uploader service.Uploader, log logger.Logger) *UploadAvatarUseCase {
	return &UploadAvatarUseCase{userRepo: repo, cache: cache, uploader: uploader, logger: log}
}

type UploadAvatarInput struct {
	UserID uuid.UUID
	File   io.Reader
}

func (uc *UploadAvatarUseCase) Execute(ctx context.Context, input UploadAvatarInput) (*user.User, error) {
	u, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("user", input.UserID.String())
		}
		return nil, err
	}

	url, err := uc.uploader.Upload(ctx, input.File, AvatarFolder(u.ID), avatarName)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload avatar", err)
	}

	if err := uc.userRepo.UpdateAvatar(ctx, u.ID, url); err != nil {
		return nil, err
	}
	u.Avatar = url

	if uc.cache != nil {
		if err := uc.cache.Evict(ctx, u.ID); err != nil {
			uc.logger.Warn("Failed to evict projection after avatar change", zap.String("user_id", u.ID.String()), zap.Error(err))
		}
	}
	return u, nil
}
