package router

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// MaxBodyBytes caps decoded request bodies.
const MaxBodyBytes = 64 * 1024

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetQuery reads a trimmed query parameter.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// DecodeBodyLoose decodes a JSON body into a T, ignoring unknown fields.
// Malformed or empty bodies yield the zero T and false.
func DecodeBodyLoose[T any](r *http.Request) (T, bool) {
	var zero, out T
	if r.Body == nil {
		return zero, false
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil || len(body) == 0 {
		return zero, false
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, false
	}

	return out, true
}
