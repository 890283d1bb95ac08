package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdentity(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@mail.trimly.id", "x@y.co"}
	invalid := []string{"", "not-an-email", "@example.com", "user@", "user@example", "a@b@c.com", "user@.com", "user@example.", "us er@example.com"}

	for _, s := range valid {
		assert.True(t, IsIdentity(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsIdentity(s), s)
	}
}

type issueForm struct {
	Email string `validate:"required,identity"`
}

type verifyForm struct {
	Email    string `validate:"required,identity"`
	OTPValue string `validate:"required"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(issueForm{Email: "user@example.com"}))

	err = v.Validate(issueForm{Email: "not-an-email"})
	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email must be a valid email identity", verr.Values()["email"])

	err = v.Validate(verifyForm{Email: "user@example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "OTPValue is a required field", verr["otp_value"])
	assert.NotContains(t, verr, "email")
	assert.Contains(t, err.Error(), "otp_value")
}
