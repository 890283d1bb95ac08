package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/trimly/internal/pkg/session"
)

// middlewareSession loads the caller's session for every non-public route.
// Browsers cannot set headers on EventSource, so GET requests may pass the
// token as ?access_token= instead.
func middlewareSession(sessions SessionParser, public map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := public[r.Method][matchedRoutePath(r)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" || sessions == nil {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			s, err := sessions.Parse(token)
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired session"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

func bearerToken(r *http.Request) string {
	p := strings.Fields(r.Header.Get("Authorization"))
	if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
		return p[1]
	}
	if r.Method == http.MethodGet {
		return (&Request{Request: r}).GetQuery("access_token")
	}
	return ""
}
