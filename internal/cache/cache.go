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

// Package cache defines the coordination cache interface: a key/value
// store with TTL and an atomic get-and-delete, shared between two
// disjoint namespaces — upload sessions (keyed by hashed session id)
// and per-part rendezvous slots (keyed by "s3_wait_etag:"+UUID).
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and GetAndDelete when the key has no
// value (missing or expired).
var ErrNotFound = errors.New("cache: key not found")

// Cache is the interface the coordinator consumes; it is satisfied by
// *cache.Redis in production and by an in-memory fake in tests.
type Cache interface {
	// Get fetches the value at k, or ErrNotFound.
	Get(ctx context.Context, k string) (string, error)
	// GetAndDelete atomically fetches and removes the value at k, or
	// ErrNotFound. Used for single-use session consumption and
	// rendezvous-slot draining during finish-upload.
	GetAndDelete(ctx context.Context, k string) (string, error)
	// SetWithTTL stores value at k with the given TTL.
	SetWithTTL(ctx context.Context, k, value string, ttl time.Duration) error
}
