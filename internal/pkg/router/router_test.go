package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type tokenSessions map[string]*session.Session

func (t tokenSessions) Parse(token string) (*session.Session, error) {
	if s, ok := t[token]; ok {
		return s, nil
	}
	return nil, session.ErrInvalidToken
}

func newTestRouter() *Router {
	return NewRouter(Config{
		UUID: fixedID("cid-fixed"),
		Sessions: tokenSessions{
			"good": {ID: "s1", Email: "ops@trimly.id", Role: session.RoleAdmin},
		},
		Public: map[string][]string{
			http.MethodPost: {"/api/v1/verification/otp/issue"},
		},
	})
}

func serve(ro *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_WelcomeAndNotFound(t *testing.T) {
	ro := newTestRouter()

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cid-fixed", rec.Header().Get(HeaderCorrelationID))

	rec = serve(ro, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MethodNotAllowedOverride(t *testing.T) {
	ro := newTestRouter()
	ro.POSTRaw("/api/v1/verification/otp/issue", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, map[string]any{"success": true}, http.StatusOK)
	}))
	ro.POSTRaw("/other", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ro.MethodNotAllowed("/api/v1/verification/otp/issue", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, map[string]string{"error": "Method not allowed"}, http.StatusMethodNotAllowed)
	}))

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/verification/otp/issue", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())

	rec = serve(ro, httptest.NewRequest(http.MethodPost, "/api/v1/verification/otp/issue", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(ro, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method not allowed", decode(t, rec)["message"])
}

func TestRouter_SessionRequired(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/api/v1/realtime/feeds", func(r *Request) (any, error) {
		return []string{session.FromContext(r.Context()).Email}, nil
	})

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/realtime/feeds", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/realtime/feeds", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = serve(ro, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/realtime/feeds", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(ro, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"ops@trimly.id"}, decode(t, rec)["data"])

	rec = serve(ro, httptest.NewRequest(http.MethodGet, "/api/v1/realtime/feeds?access_token=good", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ErrorCodec(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/business", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("feed is not available", goerror.CodeForbidden)
	})
	ro.GET("/plain", func(*Request) (any, error) {
		return nil, errors.New("db down")
	})
	ro.GET("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	auth := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer good")
		return req
	}

	rec := serve(ro, auth("/business"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "feed is not available", decode(t, rec)["message"])

	rec = serve(ro, auth("/plain"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])

	rec = serve(ro, auth("/panic"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDecodeBodyLoose(t *testing.T) {
	type form struct {
		Email string `json:"email"`
	}

	got, ok := DecodeBodyLoose[form](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","x":1}`)))
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", got.Email)

	got, ok = DecodeBodyLoose[form](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`)))
	assert.False(t, ok)
	assert.Empty(t, got.Email)

	got, ok = DecodeBodyLoose[form](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":5}`)))
	assert.False(t, ok)
	assert.Empty(t, got.Email)
}

func TestMaskURI(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/stream?access_token=abc&x=1", nil)
	assert.Equal(t, "/stream?access_token=%2A%2A%2A&x=1", maskURI(req.URL, maskKeys(nil)))
}

func TestRequest_ParamAndQuery(t *testing.T) {
	ro := newTestRouter()
	ro.GET("/feeds/:feed", func(r *Request) (any, error) {
		return map[string]string{"feed": r.GetParam("feed"), "since": r.GetQuery("since")}, nil
	})

	rec := serve(ro, httptest.NewRequest(http.MethodGet, "/feeds/challenges?since=%2042%20&access_token=good", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"feed": "challenges", "since": "42"}, decode(t, rec)["data"])

	rec = serve(ro, httptest.NewRequest(http.MethodGet, "/feeds/challenges?access_token=%20", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
