package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	entryUseCase   *profileUC.EntryUseCase
	deleteUseCase  *profileUC.DeleteAccountUseCase
	logger         logger.Logger
}

func NewProfileHandler(
	uc *profileUC.ProfileUseCase,
	entryUC *profileUC.EntryUseCase,
	deleteUC *profileUC.DeleteAccountUseCase,
	log logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		entryUseCase:   entryUC,
		deleteUseCase:  deleteUC,
		logger:         log,
	}
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.profileUseCase.ExecuteGetMyProfile(c.Request.Context(), profileUC.GetProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	views, err := h.profileUseCase.ExecuteListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(views))
}

func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	raw := c.Param("user_id")
	userID, err := uuid.Parse(raw)
	if err != nil {
		c.Error(profileUC.ProfileNotFound(raw))
		return
	}

	view, err := h.profileUseCase.ExecuteGetProfileByUserID(c.Request.Context(), profileUC.GetProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input profileUC.UpsertProfileInput
	if err := bindJSON(c, &input); err != nil {
		c.Error(err)
		return
	}
	input.UserID = userID

	view, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

// DeleteAccount removes the caller's posts, profile and user.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), profileUC.DeleteAccountInput{UserID: userID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	input := profileUC.AddExperienceInput{UserID: userID}
	if err := bindJSON(c, &input.ExperienceInput); err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.AddExperience(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}
	expID, err := uuidParam(c, "exp_id", "experience")
	if err != nil {
		c.Error(err)
		return
	}

	input := profileUC.UpdateExperienceInput{UserID: userID, ExperienceID: expID}
	if err := bindJSON(c, &input.ExperienceInput); err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.UpdateExperience(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}
	expID, err := uuidParam(c, "exp_id", "experience")
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.DeleteExperience(c.Request.Context(), profileUC.DeleteEntryInput{UserID: userID, EntryID: expID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}

	input := profileUC.AddEducationInput{UserID: userID}
	if err := bindJSON(c, &input.EducationInput); err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.AddEducation(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}
	eduID, err := uuidParam(c, "edu_id", "education")
	if err != nil {
		c.Error(err)
		return
	}

	input := profileUC.UpdateEducationInput{UserID: userID, EducationID: eduID}
	if err := bindJSON(c, &input.EducationInput); err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.UpdateEducation(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.Error(err)
		return
	}
	eduID, err := uuidParam(c, "edu_id", "education")
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.entryUseCase.DeleteEducation(c.Request.Context(), profileUC.DeleteEntryInput{UserID: userID, EntryID: eduID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}
