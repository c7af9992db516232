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

// PreflightRequest is the body sent to the external backend's preflight
// endpoint. Every request carries the gateway's shared secret so the
// backend can authenticate the gateway itself.
type PreflightRequest struct {
	UploadServiceKey string `json:"upload_service_key"`
	FolderID         string `json:"folderId,omitempty"`
	Name             string `json:"name,omitempty"`
	IsSensitive      bool   `json:"isSensitive"`
	Comment          string `json:"comment,omitempty"`
	Size             uint64 `json:"size"`
	Ext              string `json:"ext,omitempty"`
	IsLink           bool   `json:"isLink"`
	URL              string `json:"url,omitempty"`
	URI              string `json:"uri,omitempty"`
	I                string `json:"i"`
	UserID           string `json:"user_id,omitempty"`
}

// PreflightResponse is the decoded body of a successful preflight call.
type PreflightResponse struct {
	SkipSensitiveDetection                  bool    `json:"skipSensitiveDetection"`
	SensitiveThreshold                      float32 `json:"sensitiveThreshold"`
	EnableSensitiveMediaDetectionForVideos   bool    `json:"enableSensitiveMediaDetectionForVideos"`
	DetectedName                            string  `json:"detectedName"`
}

// RegisterRequest is the body sent once an upload has been completed and is
// ready to be committed against the backend's records.
type RegisterRequest struct {
	UploadServiceKey string  `json:"upload_service_key"`
	BaseURL          string  `json:"baseUrl"`
	AccessKey        string  `json:"accessKey"`
	ThumbnailKey     *string `json:"thumbnailKey,omitempty"`
	MD5              string  `json:"md5"`
	Blurhash         *string `json:"blurhash,omitempty"`
	Size             uint64  `json:"size"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	SourceURL        *string `json:"sourceUrl,omitempty"`
	RemoteURI        *string `json:"remoteUri,omitempty"`
	IsLink           bool    `json:"isLink"`
	FolderID         *string `json:"folderId,omitempty"`
	Name             string  `json:"name"`
	Comment          *string `json:"comment,omitempty"`
	IsSensitive      bool    `json:"isSensitive"`
	MaybeSensitive   bool    `json:"maybeSensitive"`
	ContentType      string  `json:"contentType"`
	Force            bool    `json:"force"`
	I                *string `json:"i,omitempty"`
	UserID           *string `json:"user_id,omitempty"`
}

// RegisterResponse is the raw passthrough of the backend's register reply:
// the gateway forwards its status and body to the client verbatim.
type RegisterResponse struct {
	Status int
	Body   []byte
}
