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

// Package coordinator implements the upload state machine: preflight,
// partial-upload, finish-upload, abort, and the full-upload single-shot
// path. It is the one place that wires SessionStore, ObjectStoreAdapter,
// CoordinationCache, MediaAnalyzer, and BackendClient together.
package coordinator

import (
	"time"

	"github.com/google/uuid"

	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/cache"
	"github.com/summaly-dev/upload-gateway/internal/config"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/mimetype"
	"github.com/summaly-dev/upload-gateway/internal/objectstore"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

// preflightSessionTTL is the fixed TTL a session is inserted with by
// preflight, before any part has arrived.
const preflightSessionTTL = 30 * time.Second

// rendezvousTTL bounds how long a part-completion rendezvous slot lives.
const rendezvousTTL = 24 * time.Hour

// rendezvousPollInterval and rendezvousPollBudget bound how long
// finish-upload waits for an in-flight part upload to land its etag.
const (
	rendezvousPollInterval = time.Second
	rendezvousPollBudget   = 600 * time.Second
)

// Coordinator wires every external collaborator the state machine needs.
type Coordinator struct {
	Sessions *session.Store
	Cache    cache.Cache
	Store    objectstore.Store
	Backend  *backend.Client
	Analyzer *media.Analyzer
	Mime     func([]byte) mimetype.Classification
	Config   *config.Config
}

// New constructs a Coordinator from its collaborators and configuration.
func New(cfg *config.Config, sessions *session.Store, c cache.Cache, store objectstore.Store, be *backend.Client, analyzer *media.Analyzer) *Coordinator {
	return &Coordinator{
		Sessions: sessions,
		Cache:    c,
		Store:    store,
		Backend:  be,
		Analyzer: analyzer,
		Mime:     mimetype.Classify,
		Config:   cfg,
	}
}

// newS3Key allocates a fresh object key under the configured prefix.
func (c *Coordinator) newS3Key() string {
	return c.Config.Prefix + "/" + uuid.NewString()
}

// newThumbnailKey allocates a fresh thumbnail object key under the
// configured prefix.
func (c *Coordinator) newThumbnailKey() string {
	return c.Config.Prefix + "/thumbnail-" + uuid.NewString() + ".webp"
}

// sessionTTL is the TTL an active (post-first-part) session is re-inserted
// with, as configured for the coordination-cache endpoint.
func sessionTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Redis.SessionTTL) * time.Second
}

// newRendezvousKey allocates a fresh per-part rendezvous cache key.
func newRendezvousKey() string {
	return "s3_wait_etag:" + uuid.NewString()
}

// contentDisposition builds the fixed "inline; filename=..." header value,
// percent-encoding the non-alphanumeric characters of name.
func contentDisposition(name string) string {
	return `inline; filename="` + percentEncodeNonAlphanumeric(name) + `"`
}

// percentEncodeNonAlphanumeric percent-encodes every byte that is not an
// ASCII letter or digit, matching the "NON_ALPHANUMERIC" encoding set.
func percentEncodeNonAlphanumeric(s string) string {
	const hex = "0123456789ABCDEF"
	var out []byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			out = append(out, ch)
			continue
		}
		out = append(out, '%', hex[ch>>4], hex[ch&0x0f])
	}
	return string(out)
}

// ffmpegInputURL builds the transcoder's input URL for an object key,
// preferring the dedicated ffmpeg base URL and falling back to the public
// base URL.
func (c *Coordinator) ffmpegInputURL(s3Key string) string {
	base := c.Config.FfmpegBaseURL
	if base == "" {
		base = c.Config.PublicBaseURL
	}
	return base + s3Key
}
