package inbound

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/realtime/usecase"
)

// heartbeat keeps proxies from dropping idle streams.
var heartbeat = 25 * time.Second

type streamError struct {
	Message string `json:"message"`
}

// Stream pushes feed events to the client as Server-Sent Events. The event
// name is the change type, the data is the JSON encoded event.
// @Summary Stream feed events
// @Description Server-Sent Events stream of challenge changes. The token may be passed as access_token because EventSource cannot set headers.
// @Tags Realtime
// @Produce text/event-stream
// @Security BearerAuth
// @Param feed path string true "Feed name" example(challenge)
// @Param access_token query string false "Session token for EventSource clients"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} streamError "Missing or invalid session"
// @Failure 403 {object} streamError "Role may not subscribe to the feed"
// @Failure 404 {object} streamError "Feed not found"
// @Failure 500 {object} streamError "Internal server error"
// @Router /api/v1/realtime/feeds/{feed}/stream [get]
func (h *HTTPEndpoint) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed := (&router.Request{Request: r}).GetParam("feed")

	stream, err := h.uc.Stream(ctx, usecase.StreamInput{Feed: feed})
	if err != nil {
		if setter, ok := w.(interface{ SetError(error) }); ok {
			setter.SetError(err)
		}
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if gerr, ok := goerror.As(err); ok {
			code, msg = gerr.StatusCode(), gerr.Msg()
		}
		router.WriteJSON(w, streamError{Message: msg}, code)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		slog.ErrorContext(ctx, "failed to send response connected", "error", err)
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case evt, ok := <-stream:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				slog.ErrorContext(ctx, "failed to marshal data", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", evt.ID, evt.Type, payload); err != nil {
				slog.ErrorContext(ctx, "failed to send response data", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
