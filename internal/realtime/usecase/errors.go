package usecase

import "github.com/shandysiswandi/trimly/internal/pkg/goerror"

var (
	ErrUnauthenticated = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	ErrFeedNotFound    = goerror.NewBusiness("Feed not found", goerror.CodeNotFound)
	ErrFeedForbidden   = goerror.NewBusiness("You are not allowed to subscribe to this feed", goerror.CodeForbidden)
)
