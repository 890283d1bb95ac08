package app

import (
	"log/slog"
	"net/http"

	"github.com/swaggo/swag/v2"

	_ "github.com/shandysiswandi/trimly/docs"
)

// PathAPIDocs serves the generated OpenAPI document.
const PathAPIDocs = "/swagger/doc.json"

func apiDocs(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read api docs", "error", err)
		http.Error(w, "api docs unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
