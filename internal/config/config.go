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

// Package config loads the upload-gateway's JSON configuration file,
// writing out a documented-default file if none exists. The loader uses
// github.com/spf13/viper to read JSON and decode into the Config struct
// via github.com/mitchellh/mapstructure tags, mirroring the original
// implementation's "create default config.json if missing, then load it"
// sequence.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable naming the config file path,
// matching the original implementation's SUMMALY_CONFIG_PATH.
const EnvConfigPath = "SUMMALY_CONFIG_PATH"

const defaultConfigPath = "config.json"

// FilterType names the resize filter used for thumbnail generation. The
// logical names map to convolution kernels:
// Nearest->Box, Triangle->Bilinear, CatmullRom->CatmullRom,
// Gaussian->Mitchell, Lanczos3->Lanczos3.
type FilterType string

const (
	FilterNearest    FilterType = "Nearest"
	FilterTriangle   FilterType = "Triangle"
	FilterCatmullRom FilterType = "CatmullRom"
	FilterGaussian   FilterType = "Gaussian"
	FilterLanczos3   FilterType = "Lanczos3"
)

// S3Config describes the object-store endpoint the ObjectStoreAdapter binds to.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	Bucket    string `mapstructure:"bucket" json:"bucket"`
	Region    string `mapstructure:"region" json:"region"`
	AccessKey string `mapstructure:"access_key" json:"access_key"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key"`
	TimeoutMS uint64 `mapstructure:"timeout" json:"timeout"`
	PathStyle bool   `mapstructure:"path_style" json:"path_style"`
}

// RedisConfig describes the coordination-cache endpoint and the configured
// session TTL (seconds) used by active (post-first-part) sessions.
type RedisConfig struct {
	Endpoint   string `mapstructure:"endpoint" json:"endpoint"`
	SessionTTL int64  `mapstructure:"session_ttl" json:"session_ttl"`
}

// BackendConfig describes the external registration/policy service.
type BackendConfig struct {
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	Key      string `mapstructure:"key" json:"key"`
}

// Config is the full upload-gateway configuration.
type Config struct {
	BindAddr         string        `mapstructure:"bind_addr" json:"bind_addr"`
	PublicBaseURL    string        `mapstructure:"public_base_url" json:"public_base_url"`
	Prefix           string        `mapstructure:"prefix" json:"prefix"`
	ThumbnailFilter  FilterType    `mapstructure:"thumbnail_filter" json:"thumbnail_filter"`
	ThumbnailQuality float32       `mapstructure:"thumbnail_quality" json:"thumbnail_quality"`
	AllowOrigin      string        `mapstructure:"allow_origin" json:"allow_origin"`
	Ffmpeg           string        `mapstructure:"ffmpeg" json:"ffmpeg,omitempty"`
	FfmpegBaseURL    string        `mapstructure:"ffmpeg_base_url" json:"ffmpeg_base_url,omitempty"`
	S3               S3Config      `mapstructure:"s3" json:"s3"`
	Redis            RedisConfig   `mapstructure:"redis" json:"redis"`
	PartMaxSize      uint64        `mapstructure:"part_max_size" json:"part_max_size"`
	MaxSize          uint64        `mapstructure:"max_size" json:"max_size"`
	Backend          BackendConfig `mapstructure:"backend" json:"backend"`
}

// Default returns the documented-default configuration, matching the
// literal defaults written by original_source/src/main.rs.
func Default() *Config {
	return &Config{
		BindAddr:         "0.0.0.0:12200",
		PublicBaseURL:    "https://files.example.com/",
		Prefix:           "prefix",
		ThumbnailFilter:  FilterLanczos3,
		ThumbnailQuality: 50,
		AllowOrigin:      "http://localhost:3000",
		Ffmpeg:           "ffmpeg",
		FfmpegBaseURL:    "https://files.example.com/",
		S3: S3Config{
			Endpoint:  "localhost:9000",
			Region:    "us-east-1",
			AccessKey: "example-user",
			SecretKey: "example-password",
			Bucket:    "files",
			TimeoutMS: 5000,
			PathStyle: true,
		},
		Redis: RedisConfig{
			Endpoint:   "localhost:6379",
			SessionTTL: 600,
		},
		PartMaxSize: 20 * 1024 * 1024,
		MaxSize:     20 * 1024 * 1024,
		Backend: BackendConfig{
			Endpoint: "http://localhost:3000/api",
			Key:      "default-upload-service-password",
		},
	}
}

// Path resolves the config file path from SUMMALY_CONFIG_PATH, defaulting
// to "config.json" when unset or empty.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return defaultConfigPath
}

// Load reads the config file at Path(), writing out Default() first if the
// file does not yet exist.
func Load() (*Config, error) {
	path := Path()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config at %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat config at %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config at %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config at %s: %w", path, err)
	}
	return cfg, nil
}

func writeDefault(path string) error {
	b, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
