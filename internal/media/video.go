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
	"os/exec"
)

// extractFirstFrame invokes the configured transcoder binary against
// inputURL, asking for a single decoded video frame on stdout as a raw
// image2pipe stream, then decodes it. Returns (nil, nil) — not an error —
// whenever ffmpeg is unconfigured or the frame cannot be decoded, per the
// "no metadata, not an error" contract for unsupported video.
func extractFirstFrame(ctx context.Context, ffmpegPath, inputURL string) (image.Image, error) {
	if ffmpegPath == "" {
		return nil, nil
	}

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-loglevel", "quiet",
		"-i", inputURL,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil
	}

	if err := cmd.Start(); err != nil {
		return nil, nil
	}

	var buf bytes.Buffer
	_, readErr := buf.ReadFrom(stdout)

	img, decodeErr := image.Decode(&buf)
	if readErr != nil || decodeErr != nil {
		// Frame read or decode failed: await the process so it never
		// zombies, then report "no metadata".
		_ = cmd.Wait()
		return nil, nil
	}

	// The frame has already been read; kill rather than wait for the
	// process to notice its pipe closed and exit on its own.
	_ = cmd.Process.Kill()
	_ = cmd.Wait()

	return img, nil
}
