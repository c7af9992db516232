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

// Redis-backed Cache (github.com/redis/go-redis/v9). gotosocial's own
// codeberg.org/gruf/go-cache/v3 is in-process only, which cannot serve the
// multi-process rendezvous an upload gateway requires (a background
// goroutine and the eventual finish-upload request may run in different
// processes across a restart); see DESIGN.md.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cache over a *redis.Client.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis cache client for the given endpoint
// ("host:port", as configured in config.RedisConfig.Endpoint).
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *Redis) Get(ctx context.Context, k string) (string, error) {
	v, err := r.client.Get(ctx, k).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// GetAndDelete uses redis GETDEL (redis >= 6.2), which atomically reads and
// removes the key in a single round trip — the mutual-exclusion primitive
// single-use session consumption depends on.
func (r *Redis) GetAndDelete(ctx context.Context, k string) (string, error) {
	v, err := r.client.GetDel(ctx, k).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *Redis) SetWithTTL(ctx context.Context, k, value string, ttl time.Duration) error {
	return r.client.Set(ctx, k, value, ttl).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
