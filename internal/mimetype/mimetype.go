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

// Package mimetype sniffs a byte prefix, canonicalizes its extension, and
// downgrades anything outside a fixed browser-safe allowlist to
// application/octet-stream.
//
// Sniffing is done with github.com/h2non/filetype, the Go analogue of the
// Rust "infer" crate used by the original implementation's partial-upload
// and full-upload handlers.
package mimetype

import (
	"github.com/h2non/filetype"
)

// DefaultContentType is used whenever sniffing fails or the detected type
// isn't in the browser-safe allowlist.
const DefaultContentType = "application/octet-stream"

// browserSafe is the fixed set of MIME types the gateway is willing to
// serve inline. Anything else is downgraded to DefaultContentType.
var browserSafe = map[string]struct{}{
	"image/png":            {},
	"image/jpeg":           {},
	"image/gif":            {},
	"image/webp":           {},
	"image/avif":           {},
	"image/svg+xml":        {},
	"image/bmp":            {},
	"image/tiff":           {},
	"image/heic":           {},
	"image/heif":           {},
	"audio/mpeg":           {},
	"audio/mp4":            {},
	"audio/ogg":            {},
	"audio/wav":            {},
	"audio/x-wav":          {},
	"audio/webm":           {},
	"audio/flac":           {},
	"audio/x-flac":         {},
	"audio/aac":            {},
	"video/mp4":            {},
	"video/webm":           {},
	"video/ogg":            {},
	"video/quicktime":      {},
	"application/pdf":      {},
	"application/octet-stream": {},
}

// extByMIME is the fallback extension table used when sniffing recognizes
// the content but reports no extension.
var extByMIME = map[string]string{
	"image/jpeg":             ".jpg",
	"image/png":              ".png",
	"image/webp":             ".webp",
	"image/avif":             ".avif",
	"image/apng":             ".apng",
	"image/vnd.mozilla.apng": ".apng",
}

// Classification is the pure, deterministic result of classifying a byte
// prefix: the negotiated content type and its (optional) leading-dot
// extension.
type Classification struct {
	ContentType string
	Ext         string // includes the leading dot; empty if none
}

// Classify sniffs buf, which should contain at least the first few hundred
// bytes of the file (more is harmless; filetype only inspects a bounded
// magic-byte prefix).
func Classify(buf []byte) Classification {
	contentType := ""
	ext := ""

	if kind, err := filetype.Match(buf); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
		if kind.Extension != "" {
			ext = "." + kind.Extension
		}
	}

	if ext == "" {
		if mapped, ok := extByMIME[contentType]; ok {
			ext = mapped
		}
	}

	if contentType == "image/apng" {
		contentType = "image/png"
	}

	if _, ok := browserSafe[contentType]; !ok {
		contentType = DefaultContentType
		ext = ""
	}

	return Classification{ContentType: contentType, Ext: ext}
}
