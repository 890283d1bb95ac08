package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/realtime/usecase"
	"github.com/shandysiswandi/trimly/internal/shared/event"
)

type fakeUsecase struct {
	stream    chan changefeed.Event
	streamErr error
	feeds     []string
	feedsErr  error

	gotFeed    string
	consumed   []usecase.ConsumeChallengeChangedInput
	consumeErr error
}

func (f *fakeUsecase) Stream(_ context.Context, in usecase.StreamInput) (<-chan changefeed.Event, error) {
	f.gotFeed = in.Feed
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return f.stream, nil
}

func (f *fakeUsecase) ListFeeds(context.Context) ([]string, error) {
	return f.feeds, f.feedsErr
}

func (f *fakeUsecase) ConsumeChallengeChanged(_ context.Context, in usecase.ConsumeChallengeChangedInput) error {
	f.consumed = append(f.consumed, in)
	return f.consumeErr
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func streamRequest(feed string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/realtime/feeds/"+feed+"/stream", nil)
	ctx := context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params{{Key: "feed", Value: feed}})
	return req.WithContext(ctx)
}

func TestStream_WritesEvents(t *testing.T) {
	uc := &fakeUsecase{stream: make(chan changefeed.Event, 1)}
	end := &HTTPEndpoint{uc: uc}

	uc.stream <- changefeed.Event{ID: 7, Feed: event.ChallengeFeed, Type: event.ChallengeLocked, Key: "ana@example.com"}
	close(uc.stream)

	rec := httptest.NewRecorder()
	end.Stream(rec, streamRequest(event.ChallengeFeed))

	assert.Equal(t, event.ChallengeFeed, uc.gotFeed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, ": connected\n\n"))
	assert.Contains(t, body, "id: 7\nevent: challenge.locked\ndata: {")
	assert.Contains(t, body, `"key":"ana@example.com"`)
}

func TestStream_StopsOnContextDone(t *testing.T) {
	uc := &fakeUsecase{stream: make(chan changefeed.Event)}
	end := &HTTPEndpoint{uc: uc}

	ctx, cancel := context.WithCancel(context.Background())
	req := streamRequest(event.ChallengeFeed).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		end.Stream(httptest.NewRecorder(), req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}

func TestStream_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"unauthenticated", usecase.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
		{"unknown feed", usecase.ErrFeedNotFound, http.StatusNotFound, "Feed not found"},
		{"forbidden", usecase.ErrFeedForbidden, http.StatusForbidden, "You are not allowed to subscribe to this feed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&HTTPEndpoint{uc: &fakeUsecase{streamErr: tt.err}}).Stream(rec, streamRequest("x"))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, `{"message":"`+tt.wantMsg+`"}`, rec.Body.String())
		})
	}
}

func TestListFeeds(t *testing.T) {
	req := &router.Request{Request: httptest.NewRequest(http.MethodGet, PathFeeds, nil)}

	resp, err := (&HTTPEndpoint{uc: &fakeUsecase{}}).ListFeeds(req)
	require.NoError(t, err)
	assert.Equal(t, ListFeedsResponse{Feeds: []string{}}, resp)

	resp, err = (&HTTPEndpoint{uc: &fakeUsecase{feeds: []string{event.ChallengeFeed}}}).ListFeeds(req)
	require.NoError(t, err)
	assert.Equal(t, ListFeedsResponse{Feeds: []string{event.ChallengeFeed}}, resp)

	_, err = (&HTTPEndpoint{uc: &fakeUsecase{feedsErr: usecase.ErrUnauthenticated}}).ListFeeds(req)
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestMQHandler_ChallengeChanged(t *testing.T) {
	uc := &fakeUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedID("generated"), ins: instrument.NewNoop()}

	body, err := json.Marshal(event.ChallengeChangedMessage{ID: 9, Type: event.ChallengeFailed, Email: "ana@example.com", Attempts: 1, Remaining: 2})
	require.NoError(t, err)

	require.NoError(t, h.ChallengeChanged(context.Background(), &messaging.Message{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte("cid-1")}},
	}))
	require.Len(t, uc.consumed, 1)
	assert.Equal(t, usecase.ConsumeChallengeChangedInput{
		ID: 9, Type: event.ChallengeFailed, Email: "ana@example.com", Attempts: 1, Remaining: 2,
	}, uc.consumed[0])

	// undecodable bodies are dropped, not redelivered
	require.NoError(t, h.ChallengeChanged(context.Background(), &messaging.Message{Body: []byte("{")}))
	assert.Len(t, uc.consumed, 1)

	uc.consumeErr = errors.New("hub closed")
	assert.Error(t, h.ChallengeChanged(context.Background(), &messaging.Message{Body: body}))
}
