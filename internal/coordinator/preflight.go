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

	"github.com/google/uuid"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

// PreflightRequest is the decoded JSON body of POST /preflight.
type PreflightRequest struct {
	I             string `json:"i"`
	FolderID      string `json:"folder_id,omitempty"`
	Name          string `json:"name,omitempty"`
	IsSensitive   bool   `json:"is_sensitive"`
	Comment       string `json:"comment,omitempty"`
	Force         bool   `json:"force"`
	ContentLength uint64 `json:"content_length"`
}

// PreflightResult is what the /preflight handler sends back to the client.
type PreflightResult struct {
	AllowUpload  bool   `json:"allow_upload"`
	MinSplitSize uint64 `json:"min_split_size"`
	MaxSplitSize uint64 `json:"max_split_size"`
	SessionID    string `json:"session_id,omitempty"`
}

// minSplitSize is the fixed minimum chunk size offered to clients for
// partial-upload splitting.
const minSplitSize = 5 * 1024 * 1024

// Preflight authorizes a new upload with the backend, allocates a fresh
// session, and pins the backend's policy response into it.
func (c *Coordinator) Preflight(ctx context.Context, req *PreflightRequest) (*PreflightResult, apierror.WithCode) {
	backendResp, err := c.Backend.Preflight(ctx, &backend.PreflightRequest{
		FolderID:    req.FolderID,
		Name:        req.Name,
		IsSensitive: req.IsSensitive,
		Comment:     req.Comment,
		Size:        req.ContentLength,
		I:           req.I,
	})
	if err != nil {
		return nil, apierror.NewErrorBadRequest(err, err.Error())
	}

	s3Key := c.newS3Key()
	sessionID := uuid.NewString()

	sess := &session.UploadSession{
		S3Key:                  s3Key,
		ContentType:            "application/octet-stream",
		PartETag:               []string{},
		Name:                   pick(backendResp.DetectedName, req.Name),
		FolderID:               req.FolderID,
		Comment:                req.Comment,
		IsSensitive:            req.IsSensitive,
		Force:                  req.Force,
		SensitiveThreshold:     backendResp.SensitiveThreshold,
		SkipSensitiveDetection: backendResp.SkipSensitiveDetection,
	}

	raw, err := sess.Encode()
	if err != nil {
		return &PreflightResult{AllowUpload: false}, apierror.NewErrorInternalError(err)
	}

	hashed := session.HashSessionID(sessionID)
	if err := c.Cache.SetWithTTL(ctx, hashed, raw, preflightSessionTTL); err != nil {
		return &PreflightResult{AllowUpload: false}, apierror.NewErrorInternalError(err)
	}

	return &PreflightResult{
		AllowUpload:  true,
		MinSplitSize: minSplitSize,
		MaxSplitSize: c.Config.PartMaxSize,
		SessionID:    sessionID,
	}, nil
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
