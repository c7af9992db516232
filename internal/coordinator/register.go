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
	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

// buildRegisterRequest assembles the backend register request shared by
// both finish-upload and full-upload, folding in whatever media metadata
// was (or wasn't) produced.
func (c *Coordinator) buildRegisterRequest(sess *session.UploadSession, md5Hex, i string, meta *media.FileMetaData, thumbnailKey *string) *backend.RegisterRequest {
	req := &backend.RegisterRequest{
		BaseURL:     c.Config.PublicBaseURL,
		AccessKey:   sess.S3Key,
		MD5:         md5Hex,
		Size:        sess.ContentLength,
		Name:        sess.Name,
		IsSensitive: sess.IsSensitive,
		ContentType: sess.ContentType,
		Force:       sess.Force,
	}
	if sess.FolderID != "" {
		folderID := sess.FolderID
		req.FolderID = &folderID
	}
	if sess.Comment != "" {
		comment := sess.Comment
		req.Comment = &comment
	}
	if i != "" {
		req.I = &i
	}
	if thumbnailKey != nil {
		req.ThumbnailKey = thumbnailKey
	}
	if meta != nil {
		req.Width = meta.Width
		req.Height = meta.Height
		if meta.Blurhash != "" {
			blurhash := meta.Blurhash
			req.Blurhash = &blurhash
		}
		if meta.MaybeSensitive != nil {
			req.MaybeSensitive = *meta.MaybeSensitive
		}
	}
	return req
}
