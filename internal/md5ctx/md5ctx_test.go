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

package md5ctx_test

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaly-dev/upload-gateway/internal/md5ctx"
)

func TestIncrementalMatchesOneShot(t *testing.T) {
	partA := []byte("the quick brown fox ")
	partB := []byte("jumps over the lazy dog")

	state := md5ctx.Empty()

	state, err := md5ctx.Extend(state, partA)
	require.NoError(t, err)
	state, err = md5ctx.Extend(state, partB)
	require.NoError(t, err)

	got, err := md5ctx.Sum(state)
	require.NoError(t, err)

	want := md5.Sum(append(append([]byte{}, partA...), partB...))
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestEmptyDigestMatchesMD5OfNothing(t *testing.T) {
	got, err := md5ctx.Sum(md5ctx.Empty())
	require.NoError(t, err)

	want := md5.Sum(nil)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestRoundTripAcrossNonContiguousChunks(t *testing.T) {
	chunks := [][]byte{
		[]byte("chunk one "),
		[]byte("chunk two "),
		[]byte("chunk three"),
	}

	state := md5ctx.Empty()
	var all []byte
	for _, c := range chunks {
		var err error
		state, err = md5ctx.Extend(state, c)
		require.NoError(t, err)
		all = append(all, c...)
	}

	got, err := md5ctx.Sum(state)
	require.NoError(t, err)

	want := md5.Sum(all)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}
