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

// Package backend implements the two-call registration handshake against
// the external policy/registration service: preflight (authorize + pin
// policy) and register (commit the finished upload). Both calls inject the
// gateway's shared secret.
//
// The transport is plain net/http + encoding/json rather than a pack
// third-party HTTP client: this is two narrow outbound JSON POSTs with no
// retries, auth schemes, or content negotiation beyond what net/http
// already does directly; see DESIGN.md for the full justification.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external backend service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	key        string
}

// NewClient constructs a backend client against endpoint (e.g.
// "http://localhost:3000/api"), injecting key as upload_service_key on
// every request.
func NewClient(endpoint, key string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		key:        key,
	}
}

// Preflight authorizes an upload and returns the policy values the
// coordinator pins into the session.
func (c *Client) Preflight(ctx context.Context, req *PreflightRequest) (*PreflightResponse, error) {
	req.UploadServiceKey = c.key

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend: marshal preflight request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/preflight", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: build preflight request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend: preflight transport error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: reading preflight response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend: preflight rejected (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out PreflightResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("backend: unparseable preflight response: %w", err)
	}
	return &out, nil
}

// Register commits a finished upload. Unlike Preflight, the caller is
// responsible for surfacing a non-2xx response: its status and body are
// returned verbatim for passthrough to the client.
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	req.UploadServiceKey = c.key

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend: marshal register request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/register", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: build register request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend: register transport error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: reading register response: %w", err)
	}

	return &RegisterResponse{Status: resp.StatusCode, Body: respBody}, nil
}
