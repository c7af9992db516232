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
	"image"

	"github.com/buckket/go-blurhash"
)

// blurhashComponents is fixed at 5x5 for compatibility with prior
// generations of placeholder strings; this constant must never change.
const blurhashComponents = 5

// encodeBlurhash computes the placeholder string over the already-resized
// NSFW-input buffer, reusing that decode so blurhash and classification
// never re-resize the original image independently.
func encodeBlurhash(img image.Image) (string, error) {
	return blurhash.Encode(blurhashComponents, blurhashComponents, img)
}
