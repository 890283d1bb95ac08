package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/trimly/internal/pkg/config"
	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Handler is the application-style handler: it returns a payload to be
// wrapped in successResponse, or an error rendered by the error codec.
type Handler func(r *Request) (any, error)

// SessionParser loads a session from a bearer token.
type SessionParser interface {
	Parse(token string) (*session.Session, error)
}

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	Sessions   SessionParser
	Instrument instrument.Instrumentation
	// Public lists routes (by method) that do not need a session.
	Public map[string][]string
}

// Router is an http.Handler over httprouter with a shared middleware chain.
type Router struct {
	hr         *httprouter.Router
	mws        []Middleware
	notAllowed map[string]http.Handler
}

// DefaultPublic are routes reachable without a session.
var DefaultPublic = map[string][]string{
	http.MethodGet: {"/", "/health", "/swagger/doc.json"},
}

func NewRouter(cfg Config) *Router {
	ro := &Router{notAllowed: make(map[string]http.Handler)}

	ro.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h, ok := ro.notAllowed[r.URL.Path]; ok {
				h.ServeHTTP(w, r)
				return
			}
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	public := make(map[string]map[string]struct{})
	for _, routes := range []map[string][]string{DefaultPublic, cfg.Public} {
		for method, paths := range routes {
			if public[method] == nil {
				public[method] = make(map[string]struct{})
			}
			for _, p := range paths {
				public[method][p] = struct{}{}
			}
		}
	}

	ro.mws = []Middleware{
		middlewareRecoverer,
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareObservability(cfg.Config, cfg.Instrument),
		middlewareMaintenance(cfg.Config),
		middlewareSession(cfg.Sessions, public),
	}

	ro.GETRaw("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": "Welcome to API Trimly"}, http.StatusOK)
	}))

	return ro
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// GETRaw registers a GET handler that writes its own response (streams, health).
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodGet, path, Chain(h, slices.Concat(r.mws, mws)...))
}

// POSTRaw registers a POST handler that writes its own response body.
func (r *Router) POSTRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodPost, path, Chain(h, slices.Concat(r.mws, mws)...))
}

// MethodNotAllowed overrides the 405 response for a static path.
func (r *Router) MethodNotAllowed(path string, h http.Handler) {
	r.notAllowed[path] = h
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			encodeError(req.Context(), w, err)
			return
		}
		encodeOK(w, resp)
	}), slices.Concat(r.mws, mws)...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	gerr, ok := goerror.As(err)
	if !ok {
		slog.ErrorContext(ctx, "unmapped handler error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg()}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Values()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func encodeOK(w http.ResponseWriter, resp any) {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	out := successResponse{Message: "request has been successfully", Data: resp}
	if m, ok := resp.(interface{ Message() string }); ok {
		out.Message = m.Message()
	}
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		out.Meta = m.Meta()
	}

	writeJSON(w, out, http.StatusOK)
}

// WriteJSON encodes data with the given status. Raw handlers use it to keep
// response framing consistent with the rest of the API.
func WriteJSON(w http.ResponseWriter, data any, code int) {
	writeJSON(w, data, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("router: failed to encode data to json", "error", err)
	}
}
