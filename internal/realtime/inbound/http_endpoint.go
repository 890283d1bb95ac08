package inbound

import (
	"github.com/shandysiswandi/trimly/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc ucStream
}

// ListFeeds returns the feeds the caller may subscribe to.
// @Summary List feeds
// @Description Lists the change feeds the session's role may subscribe to.
// @Tags Realtime
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ListFeedsResponse} "Subscribable feeds"
// @Failure 401 {object} router.errorResponse "Missing or invalid session"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/realtime/feeds [get]
func (h *HTTPEndpoint) ListFeeds(r *router.Request) (any, error) {
	feeds, err := h.uc.ListFeeds(r.Context())
	if err != nil {
		return nil, err
	}
	if feeds == nil {
		feeds = []string{}
	}

	return ListFeedsResponse{Feeds: feeds}, nil
}
