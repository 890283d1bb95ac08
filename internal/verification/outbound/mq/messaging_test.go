package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/shared/event"
	"github.com/shandysiswandi/trimly/internal/verification/usecase"
)

type capturePublisher struct {
	topic string
	msg   messaging.Outgoing
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msg messaging.Outgoing) error {
	c.topic, c.msg = topic, msg
	return nil
}

func TestPublishChallengeChanged(t *testing.T) {
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())

	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	require.NoError(t, m.PublishChallengeChanged(ctx, usecase.ChallengeEvent{
		ID: 42, Type: event.ChallengeFailed, Email: "ana@example.com", Attempts: 1, Remaining: 2, OccurredAt: at,
	}))

	assert.Equal(t, event.ChallengeChangedDestination, pub.topic)
	assert.Equal(t, []byte("ana@example.com"), pub.msg.Key)
	assert.Equal(t, []messaging.Header{{Key: "cID", Value: []byte("cid-1")}}, pub.msg.Headers)

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.Equal(t, "42", got["id"])
	assert.Equal(t, float64(2), got["remaining"])
	assert.NotContains(t, got, "expires_at")
	assert.NotContains(t, got, "code")
	assert.NotContains(t, got, "code_hash")
}
