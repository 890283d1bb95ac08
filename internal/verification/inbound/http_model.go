package inbound

type IssueRequest struct {
	Email string `json:"email"`
}

type IssueResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type IssueErrorResponse struct {
	Error string `json:"error"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyResponse struct {
	Success  bool `json:"success"`
	Verified bool `json:"verified"`
}

type VerifyErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Remaining *int   `json:"remaining,omitempty"`
}
