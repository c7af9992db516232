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

// Package session implements the UploadSession record and the SessionStore
// that encodes/decodes it to the coordination cache under a hash-derived
// key, mirroring the Bearer-token session lookup gotosocial's oauth
// middleware performs before handing a request to its processing layer.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/cache"
)

// UploadSession is the server-side record of an in-progress chunked upload.
type UploadSession struct {
	S3Key         string   `json:"s3_key"`
	UploadID      string   `json:"upload_id,omitempty"`
	ContentType   string   `json:"content_type"`
	Ext           string   `json:"ext,omitempty"`
	PartETag      []string `json:"part_etag"`
	PartNumber    *int     `json:"part_number,omitempty"`
	ContentLength uint64   `json:"content_length"`
	MD5Ctx        string   `json:"md5_ctx"`

	Name     string `json:"name"`
	FolderID string `json:"folder_id,omitempty"`
	Comment  string `json:"comment,omitempty"`

	IsSensitive bool `json:"is_sensitive"`
	Force       bool `json:"force"`

	SensitiveThreshold     float32 `json:"sensitive_threshold"`
	SkipSensitiveDetection bool    `json:"skip_sensitive_detection"`
}

// Encode serializes the session for storage in the coordination cache.
func (s *UploadSession) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode deserializes a session record previously written by Encode.
func Decode(raw string) (*UploadSession, error) {
	var s UploadSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// HashSessionID derives the cache key for a raw client-held session id:
// URL-safe, unpadded base64 of its SHA-256 digest. The raw id is never
// itself persisted.
func HashSessionID(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

var (
	errMalformedAuth = errors.New("malformed authorization header")
	errMissingAuth   = errors.New("missing authorization header")
)

// Store reads and writes UploadSession records against a coordination
// cache keyed by hashed session id.
type Store struct {
	cache cache.Cache
}

// NewStore wraps a coordination cache as a session store.
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Read extracts the Bearer session id from authorizationHeader, fetches the
// corresponding session (consuming it atomically if consume is true), and
// returns the decoded session along with the hashed session id the caller
// needs to re-insert updated state under.
func (st *Store) Read(ctx context.Context, authorizationHeader string, consume bool) (*UploadSession, string, apierror.WithCode) {
	sessionID, werr := extractBearer(authorizationHeader)
	if werr != nil {
		return nil, "", werr
	}

	hashed := HashSessionID(sessionID)

	var (
		raw string
		err error
	)
	if consume {
		raw, err = st.cache.GetAndDelete(ctx, hashed)
	} else {
		raw, err = st.cache.Get(ctx, hashed)
	}
	if errors.Is(err, cache.ErrNotFound) {
		return nil, "", apierror.NewErrorForbidden(err, "session not found")
	}
	if err != nil {
		return nil, "", apierror.NewErrorInternalError(err)
	}

	sess, err := Decode(raw)
	if err != nil {
		return nil, "", apierror.NewErrorInternalError(err)
	}
	return sess, hashed, nil
}

// extractBearer pulls the token out of an "Authorization: Bearer <token>"
// header, rejecting malformed headers with 400 and absent ones with 403.
func extractBearer(header string) (string, apierror.WithCode) {
	if header == "" {
		return "", apierror.NewErrorForbidden(errMissingAuth, "missing authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", apierror.NewErrorBadRequest(errMalformedAuth, "malformed authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", apierror.NewErrorBadRequest(errMalformedAuth, "malformed authorization header")
	}
	return token, nil
}
