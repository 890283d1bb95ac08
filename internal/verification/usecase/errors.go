package usecase

import (
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
)

var (
	ErrInvalidIdentity = goerror.NewValidation("A valid email identity is required.", goerror.CodeBadRequest)
	ErrIssueThrottled  = goerror.NewBusiness("Too many verification codes requested. Please wait before trying again.", goerror.CodeTooManyRequest)

	ErrMissingFields     = goerror.NewValidation("Email and verification code are required.", goerror.CodeBadRequest)
	ErrNoActiveChallenge = goerror.NewBusiness("No active verification session found for this identity.", goerror.CodeBadRequest)
	ErrAttemptsExceeded  = goerror.NewBusiness("Max verification attempts exceeded. Request a new code.", goerror.CodeForbidden)
	ErrChallengeExpired  = goerror.NewBusiness("The verification code has expired.", goerror.CodeBadRequest)
)

// IncorrectCodeError is a wrong code on a live challenge.
type IncorrectCodeError struct {
	Remaining int
}

func (e *IncorrectCodeError) Error() string {
	return "Incorrect verification code."
}

// ThrottledError is ErrIssueThrottled with the time left on the cooldown.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string { return ErrIssueThrottled.Error() }

func (e *ThrottledError) Unwrap() error { return ErrIssueThrottled }
