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

// Package objectstore defines the interface contract for the multipart
// and single-shot operations the coordinator drives against an
// S3-compatible bucket. Implementations are abstracted behind this
// interface so the coordinator never imports an S3 SDK directly.
package objectstore

import (
	"context"
	"io"
)

// CacheControl is the fixed Cache-Control header value the gateway stamps
// on every object it writes.
const CacheControl = "max-age=31536000, immutable"

// Part identifies one already-uploaded multipart chunk by its 1-based part
// number and the etag the store returned for it.
type Part struct {
	PartNumber int
	ETag       string
}

// Store is the ObjectStoreAdapter contract.
type Store interface {
	// InitiateMultipart starts a new multipart upload for key with the
	// given content type, returning the store-assigned upload id.
	InitiateMultipart(ctx context.Context, key, contentType string) (uploadID string, err error)

	// PutPart uploads one part (1-based partNumber) of an in-progress
	// multipart upload, returning its etag.
	PutPart(ctx context.Context, buf []byte, key string, partNumber int, uploadID, contentType string) (etag string, err error)

	// CompleteMultipart finalizes a multipart upload given its ordered
	// parts, stamping the fixed cache-control and content-disposition
	// headers.
	CompleteMultipart(ctx context.Context, key, uploadID string, parts []Part, cacheControl, contentDisposition string) error

	// AbortMultipart best-effort cancels an in-progress multipart upload.
	// Callers treat its failure as non-fatal.
	AbortMultipart(ctx context.Context, key, uploadID string) error

	// PutObject uploads a complete object in a single call, used for
	// full-upload bodies and for thumbnails.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType, cacheControl, contentDisposition string) error
}
