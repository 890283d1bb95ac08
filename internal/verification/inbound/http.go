package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/verification/usecase"
)

const (
	PathIssue  = "/api/v1/verification/otp/issue"
	PathVerify = "/api/v1/verification/otp/verify"

	HeaderSessionToken = "X-Session-Token"
)

// PublicRoutes are reachable without a session.
var PublicRoutes = map[string][]string{
	http.MethodPost: {PathIssue, PathVerify},
}

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POSTRaw(PathIssue, http.HandlerFunc(end.Issue))
	r.POSTRaw(PathVerify, http.HandlerFunc(end.Verify))

	r.MethodNotAllowed(PathIssue, http.HandlerFunc(end.IssueMethodNotAllowed))
	r.MethodNotAllowed(PathVerify, http.HandlerFunc(end.VerifyMethodNotAllowed))
}
