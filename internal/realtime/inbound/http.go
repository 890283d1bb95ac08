package inbound

import (
	"net/http"

	"github.com/shandysiswandi/trimly/internal/pkg/router"
)

const (
	PathFeeds  = "/api/v1/realtime/feeds"
	PathStream = "/api/v1/realtime/feeds/:feed/stream"
)

func RegisterHTTPEndpoint(r *router.Router, uc ucStream) {
	end := &HTTPEndpoint{uc: uc}

	r.GET(PathFeeds, end.ListFeeds)
	r.GETRaw(PathStream, http.HandlerFunc(end.Stream))
}
