package validation_test

import (
	"testing"

	domainerrors "roomlog/internal/errors"
	"roomlog/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
}

type reviewRequest struct {
	Rating    float64 `json:"rating"    validate:"gte=0.5,lte=5,halfstep"`
	HeadCount *int    `json:"headCount" validate:"omitempty,gte=1"`
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(signupRequest{Email: "a@b.io", Nickname: "solver"}))
	assert.NoError(t, v.Validate(reviewRequest{Rating: 4.5}))
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{Email: "nope", Nickname: ""})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeInvalidRequest, domainErr.Code)
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"nickname": "is required",
	}, domainErr.Details)
}

func TestValidator_Rating(t *testing.T) {
	v := validation.New()
	zero := 0

	tests := []struct {
		name    string
		req     reviewRequest
		field   string
		message string
	}{
		{name: "below range", req: reviewRequest{Rating: 0}, field: "rating", message: "must be greater than or equal to 0.5"},
		{name: "above range", req: reviewRequest{Rating: 5.5}, field: "rating", message: "must be less than or equal to 5"},
		{name: "not a half step", req: reviewRequest{Rating: 3.3}, field: "rating", message: "must be a multiple of 0.5"},
		{name: "head count", req: reviewRequest{Rating: 3, HeadCount: &zero}, field: "headCount", message: "must be greater than or equal to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.message, details[tt.field])
		})
	}
}
