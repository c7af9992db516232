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

// S3-compatible implementation of Store, built on github.com/minio/minio-go/v7.
// minio.Core exposes the raw multipart primitives
// (NewMultipartUpload/PutObjectPart/CompleteMultipartUpload/AbortMultipartUpload)
// the coordinator needs; the higher-level *minio.Client handles single-shot
// PutObject for full-upload bodies and thumbnails.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes how to reach the S3-compatible endpoint. It mirrors
// config.S3Config without importing the config package, keeping
// objectstore free of a dependency on the ambient config layer.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Minio implements Store over a bucket on an S3-compatible endpoint.
type Minio struct {
	core   *minio.Core
	bucket string
}

// NewMinio dials the configured S3-compatible endpoint.
func NewMinio(cfg Config) (*Minio, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: dialing %s: %w", cfg.Endpoint, err)
	}
	return &Minio{core: core, bucket: cfg.Bucket}, nil
}

func (m *Minio) InitiateMultipart(ctx context.Context, key, contentType string) (string, error) {
	uploadID, err := m.core.NewMultipartUpload(ctx, m.bucket, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: initiate multipart %s: %w", key, err)
	}
	return uploadID, nil
}

func (m *Minio) PutPart(ctx context.Context, buf []byte, key string, partNumber int, uploadID, contentType string) (string, error) {
	part, err := m.core.PutObjectPart(
		ctx, m.bucket, key, uploadID, partNumber,
		bytes.NewReader(buf), int64(len(buf)),
		minio.PutObjectPartOptions{},
	)
	if err != nil {
		return "", fmt.Errorf("objectstore: put part %d of %s: %w", partNumber, key, err)
	}
	return part.ETag, nil
}

func (m *Minio) CompleteMultipart(ctx context.Context, key, uploadID string, parts []Part, cacheControl, contentDisposition string) error {
	completeParts := make([]minio.CompletePart, len(parts))
	for i, p := range parts {
		completeParts[i] = minio.CompletePart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		}
	}
	_, err := m.core.CompleteMultipartUpload(ctx, m.bucket, key, uploadID, completeParts, minio.PutObjectOptions{
		CacheControl:       cacheControl,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		return fmt.Errorf("objectstore: complete multipart %s: %w", key, err)
	}
	return nil
}

func (m *Minio) AbortMultipart(ctx context.Context, key, uploadID string) error {
	if err := m.core.AbortMultipartUpload(ctx, m.bucket, key, uploadID); err != nil {
		return fmt.Errorf("objectstore: abort multipart %s: %w", key, err)
	}
	return nil
}

func (m *Minio) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType, cacheControl, contentDisposition string) error {
	_, err := m.core.Client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:        contentType,
		CacheControl:       cacheControl,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		return fmt.Errorf("objectstore: put object %s: %w", key, err)
	}
	return nil
}
