package util

import (
	"errors"
	"fmt"
)

// Code identifies a failure category. Each code maps to a distinct
// user-facing message, so shells can react per category instead of showing a
// generic "failed" state.
type Code string

const (
	CodeTokenMalformed     Code = "TOKEN_MALFORMED"
	CodeTokenMissingClaim  Code = "TOKEN_MISSING_CLAIM"
	CodeInvalidCredentials Code = "AUTH_INVALID_CREDENTIALS"
	CodeServiceUnavailable Code = "AUTH_SERVICE_UNAVAILABLE"
	CodeSubmitRejected     Code = "SUBMIT_REJECTED"
	CodeSubmitUnreachable  Code = "SUBMIT_UNREACHABLE"
	CodeSubmitConflict     Code = "SUBMIT_CONFLICT"
	CodeRequestFailed      Code = "REQUEST_FAILED"
)

// ClientError standardizes application errors.
type ClientError struct {
	Code    Code
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError constructs a ClientError.
func NewClientError(code Code, message string, err error) *ClientError {
	return &ClientError{Code: code, Message: message, Err: err}
}

func NewTokenMalformed(err error) error {
	return NewClientError(CodeTokenMalformed, "token is malformed", err)
}

func NewTokenMissingClaim(claim string) error {
	return NewClientError(CodeTokenMissingClaim, fmt.Sprintf("token is missing required claim %q", claim), nil)
}

func NewInvalidCredentials(detail string) error {
	if detail == "" {
		detail = "incorrect username or password"
	}
	return NewClientError(CodeInvalidCredentials, detail, nil)
}

func NewServiceUnavailable(err error) error {
	return NewClientError(CodeServiceUnavailable, "authentication service unavailable", err)
}

func NewSubmitRejected(detail string) error {
	if detail == "" {
		detail = "decision was declined by the server"
	}
	return NewClientError(CodeSubmitRejected, detail, nil)
}

func NewSubmitUnreachable(err error) error {
	return NewClientError(CodeSubmitUnreachable, "decision endpoint unreachable", err)
}

func NewSubmitConflict(expenseID string) error {
	return NewClientError(CodeSubmitConflict, fmt.Sprintf("a decision for expense %s is already in flight", expenseID), nil)
}

func NewRequestFailed(operation string, err error) error {
	return NewClientError(CodeRequestFailed, fmt.Sprintf("%s failed", operation), err)
}

// HasCode reports whether err carries the given failure code.
func HasCode(err error, code Code) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Code == code
}

// ToClientError coerces arbitrary errors into a ClientError.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return NewClientError(CodeRequestFailed, "request failed", err)
}
