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

package cache

import (
	"context"
	"sync"
	"time"
)

// Mem is a small in-memory Cache used by tests to exercise the coordinator
// without a real Redis instance. It implements the same atomic
// get-and-delete semantics a real cache must provide.
type Mem struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

// NewMem constructs an empty in-memory cache.
func NewMem() *Mem {
	return &Mem{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (m *Mem) Get(_ context.Context, k string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(k)
}

func (m *Mem) GetAndDelete(_ context.Context, k string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, err := m.getLocked(k)
	if err != nil {
		return "", err
	}
	delete(m.values, k)
	delete(m.expires, k)
	return v, nil
}

func (m *Mem) SetWithTTL(_ context.Context, k, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[k] = value
	m.expires[k] = time.Now().Add(ttl)
	return nil
}

func (m *Mem) getLocked(k string) (string, error) {
	exp, ok := m.expires[k]
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(exp) {
		delete(m.values, k)
		delete(m.expires, k)
		return "", ErrNotFound
	}
	return m.values[k], nil
}
