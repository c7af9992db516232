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
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/summaly-dev/upload-gateway/internal/config"
)

// FileMetaData is the pure-data result of analyzing one decoded image or
// video first frame.
type FileMetaData struct {
	MaybeSensitive *bool
	Blurhash       string
	Width          int
	Height         int
	ThumbnailBytes []byte
}

// Options carries the per-request parameters the analyzer needs: policy
// values pinned from preflight, plus the configured thumbnail target and
// encode quality/filter.
type Options struct {
	SensitiveThreshold     float32
	SkipSensitiveDetection bool
	ThumbnailSize          int
	ThumbnailQuality       float32
	ThumbnailFilter        config.FilterType
}

// Analyzer runs the image and video analysis pipelines.
type Analyzer struct {
	classifier *Classifier
	ffmpegPath string
}

// NewAnalyzer wires a loaded NSFW classifier and the configured ffmpeg
// binary path (empty disables video frame extraction).
func NewAnalyzer(classifier *Classifier, ffmpegPath string) *Analyzer {
	return &Analyzer{classifier: classifier, ffmpegPath: ffmpegPath}
}

// AnalyzeImage runs the full image pipeline: NSFW-input resize,
// classification, blurhash, and thumbnail encode, joined concurrently.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, opts Options) (*FileMetaData, error) {
	b := img.Bounds()
	meta := &FileMetaData{
		Width:  b.Dx(),
		Height: b.Dy(),
	}

	nsfwInput := resizeSquare(img, NSFWInputSize)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if opts.SkipSensitiveDetection || a.classifier == nil {
			meta.MaybeSensitive = nil
			return nil
		}
		scores, err := a.classifier.Classify(nsfwInput)
		if err != nil {
			// MediaAnalyzerFailure is swallowed; registration proceeds
			// with no sensitivity verdict.
			meta.MaybeSensitive = nil
			return nil
		}
		sensitive := scores.MaybeSensitive(opts.SensitiveThreshold)
		meta.MaybeSensitive = &sensitive
		return nil
	})

	g.Go(func() error {
		hash, err := encodeBlurhash(nsfwInput)
		if err != nil {
			return nil
		}
		meta.Blurhash = hash
		return nil
	})

	g.Go(func() error {
		thumb, err := encodeThumbnail(img, opts.ThumbnailSize, opts.ThumbnailQuality, opts.ThumbnailFilter)
		if err != nil {
			// ThumbnailFailure is swallowed: the field is simply omitted.
			return nil
		}
		meta.ThumbnailBytes = thumb
		return nil
	})

	_ = gctx
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meta, nil
}

// AnalyzeVideo extracts the first frame of the video at inputURL via the
// configured transcoder, then runs the image pipeline over it. Returns
// (nil, nil) when no transcoder is configured or the frame cannot be
// decoded, never an error.
func (a *Analyzer) AnalyzeVideo(ctx context.Context, inputURL string, opts Options) (*FileMetaData, error) {
	frame, err := extractFirstFrame(ctx, a.ffmpegPath, inputURL)
	if err != nil || frame == nil {
		return nil, nil
	}
	return a.AnalyzeImage(ctx, frame, opts)
}

// IsVideoContentType reports whether contentType should be routed through
// the video pipeline.
func IsVideoContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}

// DecodeImage decodes buf using the standard registered image decoders
// (PNG, JPEG, GIF).
func DecodeImage(buf []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	return img, err
}
