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
	"crypto/md5"
	"encoding/hex"

	"golang.org/x/sync/errgroup"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/objectstore"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

// md5OfBuffer hashes a fully-buffered body in one shot; full-upload never
// streams, so there is no running-state handoff to serialize here (unlike
// the chunked path's md5ctx).
func md5OfBuffer(buf []byte) string {
	sum := md5.Sum(buf)
	return hex.EncodeToString(sum[:])
}

// FullUploadRequest is the parsed multipart/form-data body of POST /create.
type FullUploadRequest struct {
	Name        string
	Ext         string
	FolderID    string
	I           string
	IsSensitive bool
	Force       bool
	Size        uint64
	File        []byte
}

// FullUpload runs the single-shot path: one preflight call, a direct
// single-shot object PUT concurrent with image/video analysis, then
// registration.
func (c *Coordinator) FullUpload(ctx context.Context, req *FullUploadRequest) (*backend.RegisterResponse, apierror.WithCode) {
	classification := c.Mime(req.File)

	backendResp, err := c.Backend.Preflight(ctx, &backend.PreflightRequest{
		FolderID:    req.FolderID,
		Name:        req.Name,
		IsSensitive: req.IsSensitive,
		Size:        req.Size,
		Ext:         classification.Ext,
		I:           req.I,
	})
	if err != nil {
		return nil, apierror.NewErrorBadRequest(err, err.Error())
	}

	s3Key := c.newS3Key() + classification.Ext
	md5Hex := md5OfBuffer(req.File)

	disposition := contentDisposition(pick(backendResp.DetectedName, req.Name))

	var meta *media.FileMetaData
	var thumbnailKey *string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Store.PutObject(gctx, s3Key, bytes.NewReader(req.File), int64(len(req.File)), classification.ContentType, objectstore.CacheControl, disposition)
	})

	g.Go(func() error {
		opts := media.Options{
			SensitiveThreshold:     backendResp.SensitiveThreshold,
			SkipSensitiveDetection: backendResp.SkipSensitiveDetection,
			ThumbnailSize:          media.ThumbnailMaxDimension,
			ThumbnailQuality:       c.Config.ThumbnailQuality,
			ThumbnailFilter:        c.Config.ThumbnailFilter,
		}

		if media.IsVideoContentType(classification.ContentType) {
			m, _ := c.Analyzer.AnalyzeVideo(gctx, c.ffmpegInputURL(s3Key), opts)
			meta = m
			return nil
		}

		img, decodeErr := media.DecodeImage(req.File)
		if decodeErr != nil {
			return nil
		}
		m, analyzeErr := c.Analyzer.AnalyzeImage(gctx, img, opts)
		if analyzeErr != nil {
			return nil
		}
		meta = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apierror.NewErrorInternalError(err)
	}

	if meta != nil && len(meta.ThumbnailBytes) > 0 {
		key := c.newThumbnailKey()
		if err := c.Store.PutObject(ctx, key, bytes.NewReader(meta.ThumbnailBytes), int64(len(meta.ThumbnailBytes)), "image/webp", objectstore.CacheControl, disposition); err == nil {
			thumbnailKey = &key
		}
	}

	sess := &session.UploadSession{
		S3Key:       s3Key,
		ContentType: classification.ContentType,
		Name:        pick(backendResp.DetectedName, req.Name),
		FolderID:    req.FolderID,
		IsSensitive: req.IsSensitive,
		Force:       req.Force,
	}

	regReq := c.buildRegisterRequest(sess, md5Hex, req.I, meta, thumbnailKey)
	regReq.Size = req.Size
	resp, err := c.Backend.Register(ctx, regReq)
	if err != nil {
		return nil, apierror.NewErrorBadRequest(err, err.Error())
	}
	return resp, nil
}
