package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishProfileEvent_KeyedByUser(t *testing.T) {
	w := &recordingWriter{}
	c := newKafkaProducerClient(w, logger.NewNop())
	ev := service.ProfileEvent{
		EventType:  service.EventExperienceChanged,
		UserID:     uuid.New(),
		EntryID:    uuid.New(),
		Version:    3,
		OccurredAt: time.Now().UTC(),
	}

	require.NoError(t, c.PublishProfileEvent(context.Background(), ev))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, ev.UserID.String(), string(w.msgs[0].Key))
	assert.Equal(t, "profile.experience_changed", string(w.msgs[0].Headers[0].Value))

	var decoded service.ProfileEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, ev.EntryID, decoded.EntryID)
	assert.Equal(t, int64(3), decoded.Version)
}

type scriptedReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func TestConsumer_CommitsHandledAndUndecodable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	good, _ := json.Marshal(service.ProfileEvent{EventType: service.EventAccountDeleted, UserID: uuid.New()})
	failing, _ := json.Marshal(service.ProfileEvent{EventType: service.EventProfileUpserted, UserID: uuid.New()})
	r := &scriptedReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Offset: 1, Value: good},
			{Offset: 2, Value: []byte("not json")},
			{Offset: 3, Value: failing},
		},
	}
	c := &ProfileEventConsumer{reader: r, logger: logger.NewNop()}

	var handled []service.EventType
	err := c.Run(ctx, func(_ context.Context, ev service.ProfileEvent) error {
		handled = append(handled, ev.EventType)
		if ev.EventType == service.EventProfileUpserted {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []service.EventType{service.EventAccountDeleted, service.EventProfileUpserted}, handled)
	assert.Equal(t, []int64{1, 2}, r.committed)
}
