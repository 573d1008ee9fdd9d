// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind int

const (
	KindUnreachable Kind = iota + 1
	KindBackendRejected
	KindMalformed
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindBackendRejected:
		return "backend rejected"
	case KindMalformed:
		return "malformed response"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any *CallError of the
// corresponding kind.
var (
	ErrUnreachable     = errors.New("backend unreachable")
	ErrBackendRejected = errors.New("backend rejected request")
	ErrMalformed       = errors.New("malformed backend response")
	ErrValidation      = errors.New("invalid input")
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnreachable:
		return ErrUnreachable
	case KindBackendRejected:
		return ErrBackendRejected
	case KindMalformed:
		return ErrMalformed
	case KindValidation:
		return ErrValidation
	}
	return nil
}

// CallError is the failure outcome of one backend call.
type CallError struct {
	Operation Operation
	Kind      Kind

	// StatusCode is set for KindBackendRejected.
	StatusCode int

	// Message is a human-readable detail: the validation problem, the
	// backend's error body, or the shape violation.
	Message string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *CallError) Error() string {
	var detail string
	switch {
	case e.Kind == KindBackendRejected && e.Message != "":
		detail = fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Kind == KindBackendRejected:
		detail = fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	case e.Message != "" && e.Err != nil:
		detail = fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		detail = e.Message
	case e.Err != nil:
		detail = e.Err.Error()
	}
	if detail == "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Kind, detail)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *CallError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of err if it is (or wraps) a *CallError.
func KindOf(err error) (Kind, bool) {
	var callError *CallError
	if errors.As(err, &callError) {
		return callError.Kind, true
	}
	return 0, false
}
