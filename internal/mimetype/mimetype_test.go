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

package mimetype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/summaly-dev/upload-gateway/internal/mimetype"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

func TestClassifyRecognizedPNG(t *testing.T) {
	c := mimetype.Classify(pngMagic)
	assert.Equal(t, "image/png", c.ContentType)
	assert.Equal(t, ".png", c.Ext)
}

func TestClassifyUnrecognizedBytesFallBackToOctetStream(t *testing.T) {
	c := mimetype.Classify([]byte{0, 1, 2, 3, 4, 5})
	assert.Equal(t, mimetype.DefaultContentType, c.ContentType)
	assert.Equal(t, "", c.Ext)
}

func TestClassifyEmptyBuffer(t *testing.T) {
	c := mimetype.Classify(nil)
	assert.Equal(t, mimetype.DefaultContentType, c.ContentType)
	assert.Equal(t, "", c.Ext)
}

func TestClassifyIsDeterministic(t *testing.T) {
	a := mimetype.Classify(pngMagic)
	b := mimetype.Classify(pngMagic)
	assert.Equal(t, a, b)
}
