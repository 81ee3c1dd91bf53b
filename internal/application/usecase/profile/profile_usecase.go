package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// ProfileView is a profile joined with its owner's public fields.
type ProfileView struct {
	Profile *profile.Profile
	User    user.Projection
}

type ProfileUseCase struct {
	profileRepo profile.Repository
	projector   *Projector
	publisher   service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func NewProfileUseCase(repo profile.Repository, projector *Projector, publisher service.EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		projector:   projector,
		publisher:   publisher,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

func (uc *ProfileUseCase) ExecuteGetMyProfile(ctx context.Context, input GetProfileInput) (*ProfileView, error) {
	return uc.getByUserID(ctx, input.UserID, msgNoProfile)
}

func (uc *ProfileUseCase) ExecuteGetProfileByUserID(ctx context.Context, input GetProfileInput) (*ProfileView, error) {
	return uc.getByUserID(ctx, input.UserID, msgProfileNotFound)
}

func (uc *ProfileUseCase) getByUserID(ctx context.Context, userID uuid.UUID, missingMsg string) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, errProfileMissing(userID, missingMsg)
		}
		span.RecordError(err)
		return nil, err
	}
	return uc.view(ctx, p)
}

// ExecuteListProfiles returns every profile; an empty store yields an empty slice.
func (uc *ProfileUseCase) ExecuteListProfiles(ctx context.Context) ([]ProfileView, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	projections, err := uc.projector.Resolve(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	views := make([]ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = ProfileView{Profile: p, User: projectionOrID(projections, p.UserID)}
	}
	span.SetAttributes(attribute.Int("profiles", len(views)))
	return views, nil
}

// ExecuteUpsertProfile creates the caller's profile or merges the supplied
// fields into the existing one. Exactly one write happens on success.
func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input UpsertProfileInput) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	p, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	switch {
	case err == nil:
		p.Apply(input.fields(), now)
		err = uc.profileRepo.Update(ctx, p)
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(input.UserID, input.fields(), now)
		err = uc.profileRepo.Insert(ctx, p)
	}
	if err != nil {
		span.RecordError(err)
		return nil, errWrite(err, input.UserID)
	}

	publish(ctx, uc.publisher, uc.logger, service.ProfileEvent{
		EventType:  service.EventProfileUpserted,
		UserID:     p.UserID,
		Version:    p.Version,
		OccurredAt: now,
	})
	return uc.view(ctx, p)
}

func (uc *ProfileUseCase) view(ctx context.Context, p *profile.Profile) (*ProfileView, error) {
	return resolveView(ctx, uc.projector, p)
}

func resolveView(ctx context.Context, pj *Projector, p *profile.Profile) (*ProfileView, error) {
	projections, err := pj.Resolve(ctx, []uuid.UUID{p.UserID})
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: p, User: projectionOrID(projections, p.UserID)}, nil
}

// A profile whose user is gone keeps its place in reads with an empty projection.
func projectionOrID(m map[uuid.UUID]user.Projection, id uuid.UUID) user.Projection {
	if p, ok := m[id]; ok {
		return p
	}
	return user.Projection{ID: id}
}

// publish is fire-and-forget: the write already succeeded, so a broker error is only logged.
func publish(ctx context.Context, pub service.EventPublisher, log logger.Logger, ev service.ProfileEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishProfileEvent(ctx, ev); err != nil {
		log.Error("Failed to publish profile event", err,
			zap.String("event_type", string(ev.EventType)),
			zap.String("user_id", ev.UserID.String()),
		)
	}
}
