package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so clones compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "아이디 또는 비밀번호가 일치하지 않습니다.")
	ErrStudentAuth        = New("STUDENT_AUTH_FAILED", http.StatusUnauthorized, "이름 또는 학생번호가 일치하지 않습니다.")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrStoreUnavailable   = New("STORE_UNAVAILABLE", http.StatusServiceUnavailable, "document store unavailable")
	ErrCSVInvalid         = New("CSV_INVALID", http.StatusUnprocessableEntity, "CSV 파일 파싱 중 오류가 발생했습니다.")
	ErrConsentRequired    = New("CONSENT_REQUIRED", http.StatusForbidden, "parent share consent required")
	ErrQueueFull          = New("QUEUE_FULL", http.StatusServiceUnavailable, "too many pending jobs, retry later")

	ErrFeedbackCredential = New("FEEDBACK_CREDENTIAL", http.StatusInternalServerError, "GEMINI_API_KEY가 설정되지 않았습니다. .env.local 파일을 확인해주세요.")
	ErrFeedbackRequest    = New("FEEDBACK_REQUEST", http.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
	ErrFeedbackProvider   = New("FEEDBACK_PROVIDER", http.StatusInternalServerError, "Gemini API 오류")
	ErrFeedbackTransport  = New("FEEDBACK_TRANSPORT", http.StatusInternalServerError, "API 호출 중 오류가 발생했습니다")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Cause returns a copy of err that wraps cause, keeping code, status and message.
func Cause(err *Error, cause error) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Err = cause
	return &clone
}
