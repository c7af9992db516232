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
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaly-dev/upload-gateway/internal/config"
)

func redPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAnalyzeImageSkipsSensitiveDetectionWhenRequested(t *testing.T) {
	buf := redPNG(t, 2, 2)
	img, err := DecodeImage(buf)
	require.NoError(t, err)

	a := NewAnalyzer(nil, "")
	meta, err := a.AnalyzeImage(context.Background(), img, Options{
		SkipSensitiveDetection: true,
		ThumbnailSize:          ThumbnailMaxDimension,
		ThumbnailQuality:       50,
		ThumbnailFilter:        config.FilterLanczos3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Width)
	assert.Equal(t, 2, meta.Height)
	assert.Nil(t, meta.MaybeSensitive)
	assert.NotEmpty(t, meta.Blurhash)
	assert.NotEmpty(t, meta.ThumbnailBytes)
}

func TestAnalyzeVideoWithoutTranscoderReturnsNoMetadata(t *testing.T) {
	a := NewAnalyzer(nil, "")
	meta, err := a.AnalyzeVideo(context.Background(), "https://example.com/video.mp4", Options{
		ThumbnailSize:    ThumbnailMaxDimension,
		ThumbnailQuality: 50,
		ThumbnailFilter:  config.FilterLanczos3,
	})
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestIsVideoContentType(t *testing.T) {
	assert.True(t, IsVideoContentType("video/mp4"))
	assert.False(t, IsVideoContentType("image/png"))
}

func TestThumbnailNeverUpscales(t *testing.T) {
	buf := redPNG(t, 10, 10)
	img, err := DecodeImage(buf)
	require.NoError(t, err)

	thumb, err := encodeThumbnail(img, 2048, 50, config.FilterLanczos3)
	require.NoError(t, err)
	assert.NotEmpty(t, thumb)

	thumbCfg, err := webp.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 10, thumbCfg.Width)
	assert.Equal(t, 10, thumbCfg.Height)
}
