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

// Package log wraps gotosocial's structured-logging stack
// (codeberg.org/gruf/go-kv for structured fields, codeberg.org/gruf/go-logger/v2
// for levelled output) behind the small package-level call surface
// gotosocial's own internal/log exposes elsewhere in its tree: Info/Warn/Error
// taking a context and zero or more kv.Field pairs.
package log

import (
	"context"
	"os"

	"codeberg.org/gruf/go-kv"
	gruflog "codeberg.org/gruf/go-logger/v2"
)

var logger = gruflog.New(os.Stdout, gruflog.INFO)

// Field is re-exported so callers don't need to import go-kv directly.
type Field = kv.Field

// F constructs a single structured field, e.g. log.F("session", id).
func F(key string, value any) kv.Field {
	return kv.Field{K: key, V: value}
}

func Debug(_ context.Context, msg string, fields ...kv.Field) {
	logger.Logf(gruflog.DEBUG, "%s", format(msg, fields))
}

func Info(_ context.Context, msg string, fields ...kv.Field) {
	logger.Logf(gruflog.INFO, "%s", format(msg, fields))
}

func Warn(_ context.Context, msg string, fields ...kv.Field) {
	logger.Logf(gruflog.WARN, "%s", format(msg, fields))
}

func Error(_ context.Context, msg string, fields ...kv.Field) {
	logger.Logf(gruflog.ERROR, "%s", format(msg, fields))
}

func format(msg string, fields []kv.Field) string {
	if len(fields) == 0 {
		return msg
	}
	return msg + " " + kv.Fields(fields).String()
}
