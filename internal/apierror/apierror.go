// GoToSocial
// Copyright (C) GoToSocial Authors admin@gotosocial.org
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package apierror provides the upload-gateway's error-kind system: a small
// set of sentinel kinds, each carrying an HTTP status code and a safe,
// client-facing message, wrapped around the underlying cause for logging.
//
// The shape follows gotosocial's gtserror.WithCode family
// (NewErrorBadRequest, NewErrorUnprocessableEntity, NewErrorInternalError,
// gtserror.Newf), generalized from "media attachment" errors to
// upload-coordination errors and built on the same codeberg.org/gruf/go-errors/v2
// wrapping primitives gotosocial itself depends on.
package apierror

import (
	"fmt"
	"net/http"

	errorsv2 "codeberg.org/gruf/go-errors/v2"
)

// WithCode is an error that knows which HTTP status it should be reported as,
// and carries a message that is safe to return to the client verbatim.
type WithCode interface {
	error
	// Code is the HTTP status to send to the client.
	Code() int
	// Safe is the message that is safe to expose to the client.
	Safe() string
	// Unwrap exposes the wrapped cause for logging.
	Unwrap() error
}

type withCode struct {
	cause error
	code  int
	safe  string
}

func (e *withCode) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.safe
}

func (e *withCode) Code() int     { return e.code }
func (e *withCode) Safe() string  { return e.safe }
func (e *withCode) Unwrap() error { return e.cause }

func newWithCode(code int, cause error, safe string) WithCode {
	if safe == "" && cause != nil {
		safe = cause.Error()
	}
	if cause == nil {
		cause = errorsv2.New(safe)
	}
	return &withCode{
		cause: cause,
		code:  code,
		safe:  safe,
	}
}

// NewErrorBadRequest returns a 400 WithCode. Used for malformed
// authorization, part-order violations, part-count mismatches, and
// unparseable request bodies.
func NewErrorBadRequest(cause error, safe string) WithCode {
	return newWithCode(http.StatusBadRequest, cause, safe)
}

// NewErrorForbidden returns a 403 WithCode. Used when a session is missing,
// expired, or already consumed.
func NewErrorForbidden(cause error, safe string) WithCode {
	return newWithCode(http.StatusForbidden, cause, safe)
}

// NewErrorPayloadTooLarge returns a 413 WithCode.
func NewErrorPayloadTooLarge(cause error, safe string) WithCode {
	return newWithCode(http.StatusRequestEntityTooLarge, cause, safe)
}

// NewErrorInternalError returns a 500 WithCode. Used for object-store and
// coordination-cache failures.
func NewErrorInternalError(cause error) WithCode {
	return newWithCode(http.StatusInternalServerError, cause, "internal error")
}

// NewErrorBadGateway returns a 502 WithCode, used when the backend's
// register response status is unparseable.
func NewErrorBadGateway(cause error, safe string) WithCode {
	return newWithCode(http.StatusBadGateway, cause, safe)
}

// NewWithCode builds a WithCode for an arbitrary status, used by the
// backend-passthrough path which surfaces the backend's own HTTP status.
func NewWithCode(code int, cause error, safe string) WithCode {
	return newWithCode(code, cause, safe)
}

// Newf builds a plain error with a formatted message, mirroring
// gtserror.Newf's call shape.
func Newf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
