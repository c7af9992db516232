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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaly-dev/upload-gateway/internal/config"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := config.Load()
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
	assert.Equal(t, config.Default().BindAddr, cfg.BindAddr)
	assert.Equal(t, config.Default().S3.Bucket, cfg.S3.Bucket)
	assert.EqualValues(t, 20*1024*1024, cfg.PartMaxSize)
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv(config.EnvConfigPath, path)

	require.NoError(t, os.WriteFile(path, []byte(`{
		"bind_addr": "0.0.0.0:9999",
		"public_base_url": "https://example.test/",
		"prefix": "media",
		"thumbnail_filter": "Lanczos3",
		"thumbnail_quality": 80,
		"allow_origin": "https://frontend.example.test",
		"s3": {"endpoint":"s3.example.test","bucket":"b","region":"r","access_key":"a","secret_key":"s","timeout":1000,"path_style":true},
		"redis": {"endpoint":"redis.example.test:6379","session_ttl":900},
		"part_max_size": 1048576,
		"max_size": 2097152,
		"backend": {"endpoint":"https://backend.example.test","key":"k"}
	}`), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.BindAddr)
	assert.Equal(t, "media", cfg.Prefix)
	assert.EqualValues(t, 1048576, cfg.PartMaxSize)
	assert.EqualValues(t, 900, cfg.Redis.SessionTTL)
}

func TestPathDefaultsWhenEnvUnset(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	assert.Equal(t, "config.json", config.Path())
}
