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
	"errors"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/md5ctx"
)

var errPartOrderViolation = errors.New("part submitted out of order")
var errPartTooLarge = errors.New("part exceeds configured part_max_size")

// CheckPartSize enforces part_max_size against an already-buffered chunk,
// before the session is ever touched.
func (c *Coordinator) CheckPartSize(n int) apierror.WithCode {
	if uint64(n) > c.Config.PartMaxSize {
		return apierror.NewErrorPayloadTooLarge(errPartTooLarge, "part exceeds the configured maximum part size")
	}
	return nil
}

// PartialUpload accepts one chunk of an in-progress upload. authorization
// is the raw "Authorization" header value; partNumber is the 0-based
// index the client claims for this chunk; buf is the already-buffered
// chunk body (the caller is responsible for enforcing part_max_size before
// calling this, per the partial-upload contract's step ordering).
func (c *Coordinator) PartialUpload(ctx context.Context, authorization string, partNumber int, buf []byte) apierror.WithCode {
	// Validate existence without consuming, purely so an unknown session
	// is rejected before any state mutation is attempted.
	if _, _, werr := c.Sessions.Read(ctx, authorization, false); werr != nil {
		return werr
	}

	sess, hashed, werr := c.Sessions.Read(ctx, authorization, true)
	if werr != nil {
		return werr
	}

	if sess.PartNumber == nil {
		if partNumber != 0 {
			return apierror.NewErrorBadRequest(errPartOrderViolation, "expected partnumber=0 for a fresh session")
		}
		n := 0
		sess.PartNumber = &n
	} else {
		if partNumber != *sess.PartNumber+1 {
			return apierror.NewErrorBadRequest(errPartOrderViolation, "parts must be submitted in strictly increasing order")
		}
		*sess.PartNumber++
	}

	isFirstPart := *sess.PartNumber == 0

	if isFirstPart {
		classification := c.Mime(buf)
		sess.ContentType = classification.ContentType
		sess.Ext = classification.Ext
		sess.S3Key += sess.Ext

		uploadID, err := c.Store.InitiateMultipart(ctx, sess.S3Key, sess.ContentType)
		if err != nil {
			return apierror.NewErrorInternalError(err)
		}
		sess.UploadID = uploadID
	}

	md5Ctx := sess.MD5Ctx
	if md5Ctx == "" {
		md5Ctx = md5ctx.Empty()
	}
	extended, err := md5ctx.Extend(md5Ctx, buf)
	if err != nil {
		return apierror.NewErrorInternalError(err)
	}
	sess.MD5Ctx = extended
	sess.ContentLength += uint64(len(buf))

	rendezvous := newRendezvousKey()
	sess.PartETag = append(sess.PartETag, rendezvous)

	raw, err := sess.Encode()
	if err != nil {
		return apierror.NewErrorInternalError(err)
	}
	if err := c.Cache.SetWithTTL(ctx, hashed, raw, sessionTTL(c.Config)); err != nil {
		return apierror.NewErrorInternalError(err)
	}

	go c.uploadPartAsync(rendezvous, buf, sess.S3Key, partNumber+1, sess.UploadID, sess.ContentType)

	return nil
}

// uploadPartAsync performs the actual object-store part upload detached
// from the request that accepted it, writing the resulting etag (or an
// empty string on failure) into the rendezvous slot finish-upload later
// drains.
func (c *Coordinator) uploadPartAsync(rendezvousKey string, buf []byte, s3Key string, partNumber int, uploadID, contentType string) {
	ctx := context.Background()

	etag, err := c.Store.PutPart(ctx, buf, s3Key, partNumber, uploadID, contentType)
	if err != nil {
		etag = ""
	}
	_ = c.Cache.SetWithTTL(ctx, rendezvousKey, etag, rendezvousTTL)
}
