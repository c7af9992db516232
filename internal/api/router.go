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

// Package api wires the gin HTTP surface to the UploadCoordinator: route
// registration, CORS/header policy, and the error-kind-to-status mapping.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summaly-dev/upload-gateway/internal/coordinator"
)

// NewRouter builds the gin engine serving the upload-gateway's HTTP
// surface. indexPath points at the static HTML file served at GET /.
func NewRouter(coord *coordinator.Coordinator, allowOrigin, indexPath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(allowOrigin))

	r.GET("/", func(c *gin.Context) {
		c.File(indexPath)
	})

	// Up to 10 MiB of multipart form data is held in memory; larger parts
	// spill to temporary files. The /create body size itself is not capped.
	r.MaxMultipartMemory = 10 << 20

	r.POST("/preflight", handlePreflight(coord))
	r.OPTIONS("/preflight", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/partial-upload", handlePartialUpload(coord))
	r.OPTIONS("/partial-upload", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/finish-upload", handleFinishUpload(coord))
	r.OPTIONS("/finish-upload", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/abort", handleAbort(coord))
	r.OPTIONS("/abort", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/create", handleFullUpload(coord))
	r.OPTIONS("/create", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return r
}
