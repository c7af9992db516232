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

package coordinator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/cache"
	"github.com/summaly-dev/upload-gateway/internal/config"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/objectstore"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

// fakeStore is an in-memory objectstore.Store used to assert the exact
// multipart calls the coordinator makes without a real S3 endpoint.
type fakeStore struct {
	mu sync.Mutex

	initiated      []string
	completed      []string
	completedParts []objectstore.Part
	aborted        []string
	putObjectKeys  []string
	etagCounter    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) InitiateMultipart(ctx context.Context, key, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiated = append(f.initiated, key)
	return "upload-" + key, nil
}

func (f *fakeStore) PutPart(ctx context.Context, buf []byte, key string, partNumber int, uploadID, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.etagCounter++
	return "etag" + string(rune('0'+f.etagCounter)), nil
}

func (f *fakeStore) CompleteMultipart(ctx context.Context, key, uploadID string, parts []objectstore.Part, cacheControl, contentDisposition string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, key)
	f.completedParts = parts
	return nil
}

func (f *fakeStore) AbortMultipart(ctx context.Context, key, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborted = append(f.aborted, key)
	return nil
}

func (f *fakeStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType, cacheControl, contentDisposition string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putObjectKeys = append(f.putObjectKeys, key)
	return nil
}

func newTestCoordinator(t *testing.T, store objectstore.Store, backendSrv *httptest.Server) *Coordinator {
	t.Helper()
	cfg := config.Default()
	cfg.Prefix = "prefix"
	cfg.Redis.SessionTTL = 600
	cfg.PartMaxSize = 10 * 1024 * 1024

	be := backend.NewClient(backendSrv.URL, "secret")
	analyzer := media.NewAnalyzer(nil, "")

	mem := cache.NewMem()
	sessions := session.NewStore(mem)

	return New(cfg, sessions, mem, store, be, analyzer)
}

func backendStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/preflight":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(backend.PreflightResponse{
				SensitiveThreshold: 0.5,
			})
		case "/register":
			var req backend.RegisterRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(req)
		}
	}))
}

func TestPreflightAllowsUploadAndPinsSession(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	c := newTestCoordinator(t, newFakeStore(), srv)

	result, werr := c.Preflight(context.Background(), &PreflightRequest{I: "tok", ContentLength: 15_000_000})
	require.Nil(t, werr)
	assert.True(t, result.AllowUpload)
	assert.Equal(t, uint64(5*1024*1024), result.MinSplitSize)
	assert.NotEmpty(t, result.SessionID)

	sess, _, werr := c.Sessions.Read(context.Background(), "Bearer "+result.SessionID, false)
	require.Nil(t, werr)
	assert.InDelta(t, 0.5, sess.SensitiveThreshold, 0.0001)
}

func TestPartialUploadFirstPartSetsContentTypeAndInitiatesMultipart(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	store := newFakeStore()
	c := newTestCoordinator(t, store, srv)

	preflight, werr := c.Preflight(context.Background(), &PreflightRequest{I: "tok"})
	require.Nil(t, werr)

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	werr = c.PartialUpload(context.Background(), "Bearer "+preflight.SessionID, 0, png)
	require.Nil(t, werr)

	assert.Len(t, store.initiated, 1)

	sess, _, werr := c.Sessions.Read(context.Background(), "Bearer "+preflight.SessionID, false)
	require.Nil(t, werr)
	assert.Equal(t, "image/png", sess.ContentType)
	assert.Equal(t, ".png", sess.Ext)
}

func TestPartialUploadRejectsWrongFirstPartNumber(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	c := newTestCoordinator(t, newFakeStore(), srv)

	preflight, werr := c.Preflight(context.Background(), &PreflightRequest{I: "tok"})
	require.Nil(t, werr)

	werr = c.PartialUpload(context.Background(), "Bearer "+preflight.SessionID, 1, []byte("x"))
	require.NotNil(t, werr)
	assert.Equal(t, 400, werr.Code())
}

func TestPartialUploadTwiceOnSameSessionSecondFails(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	c := newTestCoordinator(t, newFakeStore(), srv)

	preflight, werr := c.Preflight(context.Background(), &PreflightRequest{I: "tok"})
	require.Nil(t, werr)

	werr = c.PartialUpload(context.Background(), "Bearer "+preflight.SessionID, 0, []byte("x"))
	require.Nil(t, werr)

	werr = c.PartialUpload(context.Background(), "Bearer "+preflight.SessionID, 0, []byte("x"))
	require.NotNil(t, werr)
	assert.Equal(t, 403, werr.Code())
}

func TestAbortAlwaysSucceedsAndBestEffortAborts(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	store := newFakeStore()
	c := newTestCoordinator(t, store, srv)

	preflight, werr := c.Preflight(context.Background(), &PreflightRequest{I: "tok"})
	require.Nil(t, werr)

	werr = c.PartialUpload(context.Background(), "Bearer "+preflight.SessionID, 0, []byte("x"))
	require.Nil(t, werr)

	c.Abort(context.Background(), "Bearer "+preflight.SessionID)
	assert.Len(t, store.aborted, 1)

	// Aborting an already-consumed or unknown session is a no-op, not a panic.
	c.Abort(context.Background(), "Bearer does-not-exist")
}

func TestCheckPartSizeRejectsOversizedChunks(t *testing.T) {
	srv := backendStub(t)
	defer srv.Close()

	c := newTestCoordinator(t, newFakeStore(), srv)
	c.Config.PartMaxSize = 4

	assert.Nil(t, c.CheckPartSize(4))
	werr := c.CheckPartSize(5)
	require.NotNil(t, werr)
	assert.Equal(t, 413, werr.Code())
}
