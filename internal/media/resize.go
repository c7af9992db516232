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

// Package media implements the image/video analysis pipeline: resize,
// blurhash, NSFW classification, WebP thumbnail encoding, and ffmpeg-backed
// video first-frame extraction.
package media

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/summaly-dev/upload-gateway/internal/config"
)

// NSFWInputSize is the fixed square input dimension the classifier model
// expects; independent of the configured thumbnail filter and size.
const NSFWInputSize = 224

// ThumbnailMaxDimension bounds the longest edge of a generated thumbnail.
const ThumbnailMaxDimension = 2048

// filterKernel maps a logical filter name to the imaging convolution
// kernel it resolves to: Nearest->Box, Triangle->Linear (bilinear),
// CatmullRom->CatmullRom, Gaussian->MitchellNetravali, Lanczos3->Lanczos.
func filterKernel(f config.FilterType) imaging.ResampleFilter {
	switch f {
	case config.FilterNearest:
		return imaging.Box
	case config.FilterTriangle:
		return imaging.Linear
	case config.FilterCatmullRom:
		return imaging.CatmullRom
	case config.FilterGaussian:
		return imaging.MitchellNetravali
	case config.FilterLanczos3:
		return imaging.Lanczos
	default:
		return imaging.Lanczos
	}
}

// resizeToFit scales img so it fits within maxW x maxH, preserving aspect
// ratio and never producing a zero-size edge. It upscales when both bounds
// exceed the image; callers that pass maxW/maxH derived from
// min(configuredSize, original dimension) get a scale <= 1, so the image
// is never upscaled.
func resizeToFit(img image.Image, maxW, maxH int, filter imaging.ResampleFilter) *image.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return imaging.Clone(img)
	}

	scale := float64(maxW) / float64(width)
	if hs := float64(maxH) / float64(height); hs < scale {
		scale = hs
	}

	dstW := int(float64(width)*scale + 0.5)
	dstH := int(float64(height)*scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	return imaging.Resize(img, dstW, dstH, filter)
}

// resizeSquare produces the fixed-size NSFW model input: img resampled to
// exactly size x size, independent of the configured thumbnail filter
// (the classifier always resamples with a bilinear-equivalent kernel).
func resizeSquare(img image.Image, size int) *image.NRGBA {
	return imaging.Resize(img, size, size, imaging.Linear)
}
