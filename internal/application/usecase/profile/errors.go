package profile

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
)

// The API reports a missing profile as 400, unlike a missing embedded entry.
func errProfileMissing(userID uuid.UUID, msg string) error {
	return profileMissing(userID.String(), msg)
}

func profileMissing(identifier, msg string) error {
	e := apperror.NewNotFound("profile", identifier).WithStatus(http.StatusBadRequest)
	e.Message = msg
	return e
}

// ProfileNotFound is the error for a by-user lookup that cannot match, such as
// a malformed user id.
func ProfileNotFound(identifier string) error {
	return profileMissing(identifier, msgProfileNotFound)
}

func errWrite(err error, userID uuid.UUID) error {
	switch {
	case errors.Is(err, profile.ErrStaleProfile):
		return apperror.NewStaleWrite("profile", userID.String())
	case errors.Is(err, profile.ErrProfileExists):
		return apperror.NewConflict("profile", "user", userID.String())
	}
	return err
}
