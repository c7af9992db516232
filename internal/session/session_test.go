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

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaly-dev/upload-gateway/internal/cache"
)

func TestHashSessionIDIsDeterministicAndDoesNotLeakPlaintext(t *testing.T) {
	h1 := HashSessionID("abc-123")
	h2 := HashSessionID("abc-123")
	assert.Equal(t, h1, h2)
	assert.NotContains(t, h1, "abc-123")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := 1
	s := &UploadSession{
		S3Key:       "prefix/uuid",
		ContentType: "image/png",
		PartETag:    []string{"s3_wait_etag:one"},
		PartNumber:  &n,
		Name:        "file.png",
	}
	raw, err := s.Encode()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, s.S3Key, decoded.S3Key)
	require.NotNil(t, decoded.PartNumber)
	assert.Equal(t, 1, *decoded.PartNumber)
}

func TestReadRejectsMissingAuthorization(t *testing.T) {
	st := NewStore(cache.NewMem())
	_, _, werr := st.Read(context.Background(), "", true)
	require.NotNil(t, werr)
	assert.Equal(t, 403, werr.Code())
}

func TestReadRejectsMalformedAuthorization(t *testing.T) {
	st := NewStore(cache.NewMem())
	_, _, werr := st.Read(context.Background(), "Basic abc", true)
	require.NotNil(t, werr)
	assert.Equal(t, 400, werr.Code())
}

func TestReadRejectsUnknownSessionWith403(t *testing.T) {
	st := NewStore(cache.NewMem())
	_, _, werr := st.Read(context.Background(), "Bearer does-not-exist", true)
	require.NotNil(t, werr)
	assert.Equal(t, 403, werr.Code())
}

func TestReadConsumesSessionOnlyWhenRequested(t *testing.T) {
	mem := cache.NewMem()
	st := NewStore(mem)

	sess := &UploadSession{S3Key: "prefix/k", ContentType: "application/octet-stream"}
	raw, err := sess.Encode()
	require.NoError(t, err)

	hashed := HashSessionID("tok")
	require.NoError(t, mem.SetWithTTL(context.Background(), hashed, raw, time.Minute))

	// Peek without consuming: session must still be present afterward.
	got, gotHashed, werr := st.Read(context.Background(), "Bearer tok", false)
	require.Nil(t, werr)
	assert.Equal(t, "prefix/k", got.S3Key)
	assert.Equal(t, hashed, gotHashed)

	_, _, werr = st.Read(context.Background(), "Bearer tok", false)
	require.Nil(t, werr)

	// Now consume: second read must fail.
	_, _, werr = st.Read(context.Background(), "Bearer tok", true)
	require.Nil(t, werr)

	_, _, werr = st.Read(context.Background(), "Bearer tok", true)
	require.NotNil(t, werr)
	assert.Equal(t, 403, werr.Code())
}
