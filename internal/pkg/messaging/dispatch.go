package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/trimly/internal/pkg/stacktrace"
)

// dispatch runs handler with panic recovery and applies auto-ack.
func dispatch(ctx context.Context, driver string, handler Handler, msg *Message, autoAck bool) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in messaging handler",
				"driver", driver, "topic", msg.Topic, "panic", rvr,
				"stack", stacktrace.InternalPaths(debug.Stack()))
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}

		if !autoAck {
			return
		}

		var respErr error
		if err == nil {
			respErr = msg.Ack()
		} else {
			respErr = msg.Nack()
		}
		if respErr != nil {
			slog.WarnContext(ctx, "failed to respond to message", "driver", driver, "topic", msg.Topic, "error", respErr)
		}
	}()

	return handler(ctx, msg)
}

func validateConsume(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
