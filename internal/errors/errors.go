// Package errors defines domain errors carrying a kind (how the failure maps to a
// transport status) and a machine-readable code (which rule failed).
//
//	if errors.Is(err, errors.ErrExistingReview) { ... }
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    status := domainErr.Kind.HTTPStatus()
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInternal     Kind = "INTERNAL"
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type Code string

const (
	CodePartyLengthOverHeadCount Code = "PARTY_LENGTH_OVER_HEADCOUNT"
	CodeNonExistingParty         Code = "NON_EXISTING_PARTY"
	CodeExistingReview           Code = "EXISTING_REVIEW"
	CodeNonExistingUser          Code = "NON_EXISTING_USER"

	CodeNonExistingRecord  Code = "NON_EXISTING_RECORD"
	CodeNonExistingTheme   Code = "NON_EXISTING_THEME"
	CodeNonExistingStore   Code = "NON_EXISTING_STORE"
	CodeNonExistingReview  Code = "NON_EXISTING_REVIEW"
	CodeNotRecordWriter    Code = "NOT_RECORD_WRITER"
	CodeNotReviewWriter    Code = "NOT_REVIEW_WRITER"
	CodeNotTaggedMember    Code = "NOT_TAGGED_MEMBER"
	CodeDuplicateReview    Code = "DUPLICATE_REVIEW"
	CodeExistingEmail      Code = "EXISTING_EMAIL"
	CodeExistingNickname   Code = "EXISTING_NICKNAME"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeInvalidRequest     Code = "INVALID_REQUEST"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Code when the target carries one, otherwise on Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation error"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInternal     = &Error{Kind: KindInternal, Message: "internal server error"}

	ErrPartyLengthOverHeadCount = Validation(CodePartyLengthOverHeadCount, "party must be smaller than head count")
	ErrNonExistingParty         = NotFound(CodeNonExistingParty, "party member does not exist")
	ErrExistingReview           = Conflict(CodeExistingReview, "party member has already reviewed this record")
	ErrNonExistingUser          = NotFound(CodeNonExistingUser, "user is not tagged on this record")

	ErrNonExistingRecord  = NotFound(CodeNonExistingRecord, "record does not exist")
	ErrNonExistingTheme   = NotFound(CodeNonExistingTheme, "theme does not exist")
	ErrNonExistingStore   = NotFound(CodeNonExistingStore, "store does not exist")
	ErrNonExistingReview  = NotFound(CodeNonExistingReview, "review does not exist")
	ErrNotRecordWriter    = Forbidden(CodeNotRecordWriter, "only the record writer may modify it")
	ErrNotReviewWriter    = Forbidden(CodeNotReviewWriter, "only the review writer may modify it")
	ErrNotTaggedMember    = Forbidden(CodeNotTaggedMember, "only tagged members may review a record")
	ErrDuplicateReview    = Conflict(CodeDuplicateReview, "record already reviewed by this user")
	ErrExistingEmail      = Conflict(CodeExistingEmail, "email already in use")
	ErrExistingNickname   = Conflict(CodeExistingNickname, "nickname already in use")
	ErrInvalidCredentials = Unauthorized(CodeInvalidCredentials, "invalid email or password")
	ErrInvalidToken       = Unauthorized(CodeInvalidToken, "invalid token")
)

func NotFound(code Code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func Validation(code Code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func Validationf(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code Code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func Unauthorized(code Code, msg string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: msg}
}

func Forbidden(code Code, msg string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: msg}
}

// Internal wraps an unexpected failure; the cause is kept for logs but not rendered.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: err}
}
