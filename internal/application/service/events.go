package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventProfileUpserted   EventType = "profile.upserted"
	EventExperienceChanged EventType = "profile.experience_changed"
	EventEducationChanged  EventType = "profile.education_changed"
	EventAccountDeleted    EventType = "account.deleted"
)

type ProfileEvent struct {
	EventType  EventType `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	EntryID    uuid.UUID `json:"entry_id"`
	Version    int64     `json:"version,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, event ProfileEvent) error
}
