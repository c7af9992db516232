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

// NSFW classification via an ONNX model, loaded once at startup and shared
// read-only across requests, using github.com/yalue/onnxruntime_go.
package media

import (
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Scores are the five raw class scores the model produces for one image.
type Scores struct {
	Drawings float32
	Neutral  float32
	Hentai   float32
	Porn     float32
	Sexy     float32
}

// MaybeSensitive reports whether any of the three "unsafe" classes exceeds
// threshold. Drawings and Neutral never contribute.
func (s Scores) MaybeSensitive(threshold float32) bool {
	return s.Hentai > threshold || s.Porn > threshold || s.Sexy > threshold
}

// Classifier wraps a loaded ONNX session. Safe for concurrent use: Classify
// and Close serialize on the Classifier's own mutex, since every call
// shares the same pre-bound input and output tensors.
type Classifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// LoadClassifier initializes the onnxruntime environment (if not already
// initialized) and constructs a session bound to the model at modelPath.
func LoadClassifier(sharedLibraryPath, modelPath string) (*Classifier, error) {
	if sharedLibraryPath != "" {
		ort.SetSharedLibraryPath(sharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("media: initializing onnxruntime: %w", err)
	}

	inputShape := ort.NewShape(1, NSFWInputSize, NSFWInputSize, 3)
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("media: allocating nsfw input tensor: %w", err)
	}

	outputShape := ort.NewShape(1, 5)
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("media: allocating nsfw output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"output"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("media: creating nsfw session: %w", err)
	}

	return &Classifier{session: session, input: input, output: output}, nil
}

// Classify runs inference over a 224x224 RGBA image, normalizing channel
// values to [0,1] and dropping alpha, matching the model's expected input
// layout.
func (c *Classifier) Classify(rgba *image.NRGBA) (Scores, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.input.GetData()
	b := rgba.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := rgba.NRGBAAt(x, y)
			data[i+0] = float32(px.R) / 255.0
			data[i+1] = float32(px.G) / 255.0
			data[i+2] = float32(px.B) / 255.0
			i += 3
		}
	}

	if err := c.session.Run(); err != nil {
		return Scores{}, fmt.Errorf("media: nsfw inference: %w", err)
	}

	out := c.output.GetData()
	if len(out) < 5 {
		return Scores{}, fmt.Errorf("media: nsfw model returned %d scores, want 5", len(out))
	}
	return Scores{
		Drawings: out[0],
		Neutral:  out[1],
		Hentai:   out[2],
		Porn:     out[3],
		Sexy:     out[4],
	}, nil
}

// Close releases the session and its tensors.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		_ = c.session.Destroy()
	}
	if c.input != nil {
		_ = c.input.Destroy()
	}
	if c.output != nil {
		_ = c.output.Destroy()
	}
	return nil
}
