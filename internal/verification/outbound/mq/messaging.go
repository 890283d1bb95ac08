package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/shared/event"
	"github.com/shandysiswandi/trimly/internal/verification/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishChallengeChanged keys messages by email so brokers that partition or
// order by key keep one identity's events in sequence.
func (m *Messaging) PublishChallengeChanged(ctx context.Context, msg usecase.ChallengeEvent) error {
	ctx, span := m.ins.Tracer("verification.outbound.mq").Start(ctx, "PublishChallengeChanged")
	defer span.End()

	body, err := json.Marshal(event.ChallengeChangedMessage{
		ID:         msg.ID,
		Type:       msg.Type,
		Email:      msg.Email,
		Attempts:   msg.Attempts,
		Remaining:  msg.Remaining,
		ExpiresAt:  msg.ExpiresAt,
		OccurredAt: msg.OccurredAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, event.ChallengeChangedDestination, messaging.Outgoing{
		Key:     []byte(msg.Email),
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
