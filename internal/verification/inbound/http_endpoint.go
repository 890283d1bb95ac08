package inbound

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/verification/usecase"
)

const (
	msgIssued          = "OTP sent successfully"
	msgIssueFailed     = "Failed to send verification email. Please verify SMTP settings."
	msgMethodNotAllow  = "Method not allowed"
	msgVerifyException = "Internal verification exception: "
)

// HTTPEndpoint serves the OTP challenge endpoints. Bodies are written by hand
// because their shape is fixed by the sign-in widget, not the API envelope.
type HTTPEndpoint struct {
	uc uc
}

// Issue sends a fresh code to the email in the body. Malformed JSON is
// treated as an empty email.
// @Summary Issue verification code
// @Description Generates a 6 digit code for the email, stores its digest and mails it. Re-issuing replaces any previous code and resets attempts.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body IssueRequest true "Issue payload"
// @Success 200 {object} IssueResponse "Code sent" example:{"success":true,"message":"OTP sent successfully"}
// @Failure 400 {object} IssueErrorResponse "Invalid identity" example:{"error":"A valid email identity is required."}
// @Failure 405 {object} IssueErrorResponse "Method not allowed" example:{"error":"Method not allowed"}
// @Failure 429 {object} IssueErrorResponse "Throttled, see Retry-After" example:{"error":"Too many verification codes requested. Please wait before trying again."}
// @Header 429 {integer} Retry-After "Seconds left on the cooldown"
// @Failure 500 {object} IssueErrorResponse "Mail or storage failure" example:{"error":"Failed to send verification email. Please verify SMTP settings."}
// @Router /api/v1/verification/otp/issue [post]
func (h *HTTPEndpoint) Issue(w http.ResponseWriter, r *http.Request) {
	req, _ := router.DecodeBodyLoose[IssueRequest](r)

	_, err := h.uc.Issue(r.Context(), usecase.IssueInput{Email: req.Email})
	if err == nil {
		router.WriteJSON(w, IssueResponse{Success: true, Message: msgIssued}, http.StatusOK)
		return
	}

	setError(w, err)

	switch {
	case errors.Is(err, usecase.ErrInvalidIdentity):
		router.WriteJSON(w, IssueErrorResponse{Error: usecase.ErrInvalidIdentity.Error()}, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrIssueThrottled):
		var throttled *usecase.ThrottledError
		if errors.As(err, &throttled) && throttled.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(throttled.RetryAfter.Seconds()))))
		}
		router.WriteJSON(w, IssueErrorResponse{Error: usecase.ErrIssueThrottled.Error()}, http.StatusTooManyRequests)
	default:
		router.WriteJSON(w, IssueErrorResponse{Error: msgIssueFailed}, http.StatusInternalServerError)
	}
}

// Verify checks the code and, on success, returns the session token in the
// X-Session-Token header.
// @Summary Verify code
// @Description Checks the code against the active challenge. Checks run in order: missing fields, no challenge, locked, expired, then the code. A wrong code consumes one of three attempts.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} VerifyResponse "Verified" example:{"success":true,"verified":true}
// @Header 200 {string} X-Session-Token "Signed session token"
// @Failure 400 {object} VerifyErrorResponse "Missing fields, no active challenge, expired or incorrect code" example:{"success":false,"error":"Incorrect verification code.","remaining":2}
// @Failure 403 {object} VerifyErrorResponse "Attempts exhausted" example:{"success":false,"error":"Max verification attempts exceeded. Request a new code."}
// @Failure 405 {object} VerifyErrorResponse "Method not allowed" example:{"success":false,"error":"Method not allowed"}
// @Failure 500 {object} VerifyErrorResponse "Internal failure" example:{"success":false,"error":"Internal verification exception: <detail>"}
// @Router /api/v1/verification/otp/verify [post]
func (h *HTTPEndpoint) Verify(w http.ResponseWriter, r *http.Request) {
	req, _ := router.DecodeBodyLoose[VerifyRequest](r)

	out, err := h.uc.Verify(r.Context(), usecase.VerifyInput{Email: req.Email, Code: req.OTP})
	if err == nil {
		if out.SessionToken != "" {
			w.Header().Set(HeaderSessionToken, out.SessionToken)
		}
		router.WriteJSON(w, VerifyResponse{Success: true, Verified: out.Verified}, http.StatusOK)
		return
	}

	setError(w, err)

	var wrong *usecase.IncorrectCodeError
	if errors.As(err, &wrong) {
		remaining := wrong.Remaining
		router.WriteJSON(w, VerifyErrorResponse{Error: wrong.Error(), Remaining: &remaining}, http.StatusBadRequest)
		return
	}

	gerr, ok := goerror.As(err)
	if ok && gerr.Type() != goerror.TypeServer {
		router.WriteJSON(w, VerifyErrorResponse{Error: gerr.Msg()}, gerr.StatusCode())
		return
	}

	router.WriteJSON(w, VerifyErrorResponse{Error: msgVerifyException + err.Error()}, http.StatusInternalServerError)
}

func (h *HTTPEndpoint) IssueMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	router.WriteJSON(w, IssueErrorResponse{Error: msgMethodNotAllow}, http.StatusMethodNotAllowed)
}

func (h *HTTPEndpoint) VerifyMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	router.WriteJSON(w, VerifyErrorResponse{Error: msgMethodNotAllow}, http.StatusMethodNotAllowed)
}

// setError hands err to the observability middleware for logging.
func setError(w http.ResponseWriter, err error) {
	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}
}
