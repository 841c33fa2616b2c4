// Package apperr defines the error codes returned to API clients.
package apperr

import (
	"errors"
	"net/http"
)

// Code identifies an error kind in the response envelope
type Code struct {
	Status  int
	Code    string
	Message string
}

var (
	BadRequest          = Code{http.StatusBadRequest, "COMMON_001", "잘못된 요청입니다."}
	InternalServerError = Code{http.StatusInternalServerError, "COMMON_002", "서버 내부 오류가 발생했습니다."}
	Forbidden           = Code{http.StatusForbidden, "COMMON_003", "권한이 없습니다."}
	Unauthorized        = Code{http.StatusUnauthorized, "COMMON_005", "인증이 필요합니다."}

	CategoryNotFound     = Code{http.StatusNotFound, "CATEGORY_001", "존재하지 않는 카테고리입니다."}
	SubscriptionNotFound = Code{http.StatusNotFound, "SUB_001", "존재하지 않는 구독 정보입니다."}
	InvalidUsageValue    = Code{http.StatusBadRequest, "USAGE_003", "사용량 값은 음수일 수 없습니다."}
)

// ValidationFailedMessage is the envelope message for field validation failures
const ValidationFailedMessage = "요청 값 검증에 실패했습니다."

// FieldError is a single user-correctable problem with a request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an API-facing error
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Code.Code + ": " + e.Message
	}
	return e.Code.Code + ": " + e.Code.Message
}

// New returns an error with the code's default message
func New(code Code) *Error {
	return &Error{Code: code, Message: code.Message}
}

// Validation returns a COMMON_001 error carrying field errors
func Validation(fields ...FieldError) *Error {
	return &Error{Code: BadRequest, Message: ValidationFailedMessage, Fields: fields}
}

// Is reports whether err is an *Error with the given code
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code.Code == code.Code
	}
	return false
}
