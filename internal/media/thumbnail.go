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

package media

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"

	"github.com/summaly-dev/upload-gateway/internal/config"
)

// encodeThumbnail resizes the ORIGINAL image (never the NSFW-input
// downsample) to fit within thumbnailSize on its longest edge, preserving
// aspect ratio and never upscaling, then encodes it to WebP at quality
// (0..100).
func encodeThumbnail(original image.Image, thumbnailSize int, quality float32, filter config.FilterType) ([]byte, error) {
	b := original.Bounds()
	maxW := thumbnailSize
	if b.Dx() < maxW {
		maxW = b.Dx()
	}
	maxH := thumbnailSize
	if b.Dy() < maxH {
		maxH = b.Dy()
	}

	resized := resizeToFit(original, maxW, maxH, filterKernel(filter))

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
