package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/realtime/usecase"
	"github.com/shandysiswandi/trimly/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg *messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) ChallengeChanged(ctx context.Context, msg *messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("realtime.inbound.mq").Start(ctx, "ChallengeChanged")
	defer span.End()

	slog.InfoContext(ctx, "consume: verification challenge changed", "msg_id", msg.ID)

	var payload event.ChallengeChangedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of challenge changed", "msg_body", string(msg.Body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeChallengeChanged(ctx, usecase.ConsumeChallengeChangedInput{
		ID:         payload.ID,
		Type:       payload.Type,
		Email:      payload.Email,
		Attempts:   payload.Attempts,
		Remaining:  payload.Remaining,
		ExpiresAt:  payload.ExpiresAt,
		OccurredAt: payload.OccurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume challenge changed", "type", payload.Type, "error", err)
		return err
	}

	return nil
}
