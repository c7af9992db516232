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

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreflightInjectsSharedSecretAndParsesResponse(t *testing.T) {
	var gotReq PreflightRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PreflightResponse{
			SensitiveThreshold: 0.7,
			DetectedName:       "file.png",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	resp, err := c.Preflight(context.Background(), &PreflightRequest{I: "tok", Size: 1024})
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotReq.UploadServiceKey)
	assert.Equal(t, "tok", gotReq.I)
	assert.Equal(t, "file.png", resp.DetectedName)
	assert.InDelta(t, 0.7, resp.SensitiveThreshold, 0.0001)
}

func TestPreflightSurfacesNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	_, err := c.Preflight(context.Background(), &PreflightRequest{I: "tok"})
	require.Error(t, err)
}

func TestRegisterPassesThroughStatusAndBodyVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	resp, err := c.Register(context.Background(), &RegisterRequest{MD5: "deadbeef", Name: "file.png"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.JSONEq(t, `{"id":"abc"}`, string(resp.Body))
}
