package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// EntryUseCase mutates the experience and education lists of the caller's
// profile: load, change in memory, write back guarded by version.
type EntryUseCase struct {
	profileRepo profile.Repository
	projector   *Projector
	publisher   service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func NewEntryUseCase(repo profile.Repository, projector *Projector, publisher service.EventPublisher, log logger.Logger) *EntryUseCase {
	return &EntryUseCase{
		profileRepo: repo,
		projector:   projector,
		publisher:   publisher,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type AddExperienceInput struct {
	UserID uuid.UUID
	ExperienceInput
}

type UpdateExperienceInput struct {
	UserID       uuid.UUID
	ExperienceID uuid.UUID
	ExperienceInput
}

type AddEducationInput struct {
	UserID uuid.UUID
	EducationInput
}

type UpdateEducationInput struct {
	UserID      uuid.UUID
	EducationID uuid.UUID
	EducationInput
}

type DeleteEntryInput struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}

func (uc *EntryUseCase) AddExperience(ctx context.Context, in AddExperienceInput) (*ProfileView, error) {
	exp, err := in.Experience()
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "AddExperience", in.UserID, service.EventExperienceChanged, func(p *profile.Profile) (uuid.UUID, error) {
		return p.AddExperience(exp).ID, nil
	})
}

func (uc *EntryUseCase) UpdateExperience(ctx context.Context, in UpdateExperienceInput) (*ProfileView, error) {
	exp, err := in.Experience()
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "UpdateExperience", in.UserID, service.EventExperienceChanged, func(p *profile.Profile) (uuid.UUID, error) {
		if err := p.ReplaceExperience(in.ExperienceID, exp); err != nil {
			return uuid.Nil, entryMissing(err, "experience", in.ExperienceID)
		}
		return in.ExperienceID, nil
	})
}

func (uc *EntryUseCase) DeleteExperience(ctx context.Context, in DeleteEntryInput) (*ProfileView, error) {
	return uc.mutate(ctx, "DeleteExperience", in.UserID, service.EventExperienceChanged, func(p *profile.Profile) (uuid.UUID, error) {
		if err := p.RemoveExperience(in.EntryID); err != nil {
			return uuid.Nil, entryMissing(err, "experience", in.EntryID)
		}
		return in.EntryID, nil
	})
}

func (uc *EntryUseCase) AddEducation(ctx context.Context, in AddEducationInput) (*ProfileView, error) {
	edu, err := in.Education()
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "AddEducation", in.UserID, service.EventEducationChanged, func(p *profile.Profile) (uuid.UUID, error) {
		return p.AddEducation(edu).ID, nil
	})
}

func (uc *EntryUseCase) UpdateEducation(ctx context.Context, in UpdateEducationInput) (*ProfileView, error) {
	edu, err := in.Education()
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, "UpdateEducation", in.UserID, service.EventEducationChanged, func(p *profile.Profile) (uuid.UUID, error) {
		if err := p.ReplaceEducation(in.EducationID, edu); err != nil {
			return uuid.Nil, entryMissing(err, "education", in.EducationID)
		}
		return in.EducationID, nil
	})
}

func (uc *EntryUseCase) DeleteEducation(ctx context.Context, in DeleteEntryInput) (*ProfileView, error) {
	return uc.mutate(ctx, "DeleteEducation", in.UserID, service.EventEducationChanged, func(p *profile.Profile) (uuid.UUID, error) {
		if err := p.RemoveEducation(in.EntryID); err != nil {
			return uuid.Nil, entryMissing(err, "education", in.EntryID)
		}
		return in.EntryID, nil
	})
}

// mutate loads the caller's profile, applies change and persists the whole
// document. Nothing is written when change fails.
func (uc *EntryUseCase) mutate(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	evType service.EventType,
	change func(p *profile.Profile) (uuid.UUID, error),
) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, errProfileMissing(userID, msgNoProfile)
		}
		span.RecordError(err)
		return nil, err
	}

	entryID, err := change(p)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	p.UpdatedAt = now
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, errWrite(err, userID)
	}
	span.SetAttributes(attribute.String("entry_id", entryID.String()))

	publish(ctx, uc.publisher, uc.logger, service.ProfileEvent{
		EventType:  evType,
		UserID:     userID,
		EntryID:    entryID,
		Version:    p.Version,
		OccurredAt: now,
	})
	return resolveView(ctx, uc.projector, p)
}

func entryMissing(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, profile.ErrExperienceNotFound) || errors.Is(err, profile.ErrEducationNotFound) {
		return apperror.NewNotFound(resource, id.String())
	}
	return err
}
