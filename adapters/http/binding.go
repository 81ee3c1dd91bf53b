package http

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/pkg/apperror"
)

// bindJSON decodes the body into dst. An empty body leaves dst zero so that
// field validation reports what is missing.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.NewInvalidInput("request body is not valid JSON", err)
	}
	return nil
}

func uuidParam(c *gin.Context, name, resource string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewNotFound(resource, raw)
	}
	return id, nil
}

func currentUser(c *gin.Context) (uuid.UUID, error) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		return uuid.Nil, apperror.NewUnauthorized("userID not found in context", nil)
	}
	return userID, nil
}
