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
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/cache"
	"github.com/summaly-dev/upload-gateway/internal/md5ctx"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/objectstore"
)

var (
	errPartNumberUndefined = errors.New("session has no accepted parts")
	errPartUploadFailed    = errors.New("a part upload failed")
	errPartCountMismatch   = errors.New("assembled part count does not match the session's accepted part count")
)

// FinishRequest is the decoded JSON body of POST /finish-upload.
type FinishRequest struct {
	I string `json:"i"`
}

// Finish assembles and completes a chunked upload: draining every
// rendezvous slot in order, validating the resulting part count,
// completing the multipart upload, running video analysis when
// applicable, and registering the result with the backend.
func (c *Coordinator) Finish(ctx context.Context, authorization string, req *FinishRequest) (*backend.RegisterResponse, apierror.WithCode) {
	sess, _, werr := c.Sessions.Read(ctx, authorization, true)
	if werr != nil {
		return nil, werr
	}

	if sess.PartNumber == nil {
		return nil, apierror.NewErrorBadRequest(errPartNumberUndefined, "no parts have been accepted for this session")
	}

	parts := make([]objectstore.Part, 0, len(sess.PartETag))
	for i, rendezvousKey := range sess.PartETag {
		etag, err := c.drainRendezvous(ctx, rendezvousKey)
		if err != nil {
			c.bestEffortAbort(ctx, sess.S3Key, sess.UploadID)
			return nil, apierror.NewErrorInternalError(err)
		}
		if etag == "" {
			c.bestEffortAbort(ctx, sess.S3Key, sess.UploadID)
			return nil, apierror.NewErrorInternalError(errPartUploadFailed)
		}
		parts = append(parts, objectstore.Part{PartNumber: i + 1, ETag: etag})
	}

	// Consistency check: the assembled list must hold exactly one part per
	// accepted partial upload, i.e. session.PartNumber (the 0-based highest
	// index) + 1. A 1-based counter incremented after each drained slot
	// would end at session.PartNumber+2; this is the same condition.
	if len(parts) != *sess.PartNumber+1 {
		return nil, apierror.NewErrorBadRequest(errPartCountMismatch, "assembled part count does not match the session")
	}

	md5Hex, err := md5ctx.Sum(sess.MD5Ctx)
	if err != nil {
		return nil, apierror.NewErrorInternalError(err)
	}

	if err := c.Store.CompleteMultipart(ctx, sess.S3Key, sess.UploadID, parts, objectstore.CacheControl, contentDisposition(sess.Name)); err != nil {
		c.bestEffortAbort(ctx, sess.S3Key, sess.UploadID)
		return nil, apierror.NewErrorInternalError(err)
	}

	var thumbnailKey *string
	var meta *media.FileMetaData
	if media.IsVideoContentType(sess.ContentType) {
		meta, _ = c.Analyzer.AnalyzeVideo(ctx, c.ffmpegInputURL(sess.S3Key), media.Options{
			SensitiveThreshold:     sess.SensitiveThreshold,
			SkipSensitiveDetection: sess.SkipSensitiveDetection,
			ThumbnailSize:          media.ThumbnailMaxDimension,
			ThumbnailQuality:       c.Config.ThumbnailQuality,
			ThumbnailFilter:        c.Config.ThumbnailFilter,
		})
		if meta != nil && len(meta.ThumbnailBytes) > 0 {
			key := c.newThumbnailKey()
			if err := c.Store.PutObject(ctx, key, bytes.NewReader(meta.ThumbnailBytes), int64(len(meta.ThumbnailBytes)), "image/webp", objectstore.CacheControl, contentDisposition(sess.Name)); err == nil {
				thumbnailKey = &key
			}
		}
	}

	regReq := c.buildRegisterRequest(sess, md5Hex, req.I, meta, thumbnailKey)
	resp, err := c.Backend.Register(ctx, regReq)
	if err != nil {
		return nil, apierror.NewErrorBadRequest(err, err.Error())
	}
	return resp, nil
}

// drainRendezvous polls a rendezvous slot for up to the finish-upload
// polling budget, retrying once per second on transient cache errors.
func (c *Coordinator) drainRendezvous(ctx context.Context, key string) (string, error) {
	deadline := time.Now().Add(rendezvousPollBudget)
	for {
		v, err := c.Cache.GetAndDelete(ctx, key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			if time.Now().After(deadline) {
				return "", err
			}
			time.Sleep(rendezvousPollInterval)
			continue
		}
		if time.Now().After(deadline) {
			return "", err
		}
		time.Sleep(rendezvousPollInterval)
	}
}

func (c *Coordinator) bestEffortAbort(ctx context.Context, s3Key, uploadID string) {
	if uploadID == "" {
		return
	}
	_ = c.Store.AbortMultipart(ctx, s3Key, uploadID)
}
