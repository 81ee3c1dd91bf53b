package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/internal/application/usecase/account"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	uploadAvatarUseCase *account.UploadAvatarUseCase
	logger              logger.Logger
}

func NewUserHandler(uploadUC *account.UploadAvatarUseCase, log logger.Logger) *UserHandler {
	return &UserHandler{uploadAvatarUseCase: uploadUC, logger: log}
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("multipart field 'file' is required", err))
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.Error(apperror.NewInvalidInput("avatar must be 5MB or smaller", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read uploaded file", err))
		return
	}
	defer file.Close()

	u, err := h.uploadAvatarUseCase.Execute(c.Request.Context(), account.UploadAvatarInput{UserID: userID, File: file})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}
