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

package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/summaly-dev/upload-gateway/internal/apierror"
	"github.com/summaly-dev/upload-gateway/internal/coordinator"
)

// respondWithCode writes the appropriate HTTP status and a JSON error body
// for any apierror.WithCode the coordinator returns.
func respondWithCode(c *gin.Context, werr apierror.WithCode) {
	c.JSON(werr.Code(), gin.H{"error": werr.Safe()})
}

func handlePreflight(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coordinator.PreflightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, werr := coord.Preflight(c.Request.Context(), &req)
		if werr != nil {
			respondWithCode(c, werr)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func handlePartialUpload(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		partNumber, err := strconv.Atoi(c.Query("partnumber"))
		if err != nil || partNumber < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partnumber"})
			return
		}

		limit := int64(coord.Config.PartMaxSize) + 1
		buf, err := io.ReadAll(io.LimitReader(c.Request.Body, limit))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		if werr := coord.CheckPartSize(len(buf)); werr != nil {
			respondWithCode(c, werr)
			return
		}

		werr := coord.PartialUpload(c.Request.Context(), c.GetHeader("Authorization"), partNumber, buf)
		if werr != nil {
			respondWithCode(c, werr)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleFinishUpload(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coordinator.FinishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resp, werr := coord.Finish(c.Request.Context(), c.GetHeader("Authorization"), &req)
		if werr != nil {
			respondWithCode(c, werr)
			return
		}
		c.Data(resp.Status, "application/json", resp.Body)
	}
}

func handleAbort(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		coord.Abort(c.Request.Context(), c.GetHeader("Authorization"))
		c.Status(http.StatusNoContent)
	}
}

func handleFullUpload(coord *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
			return
		}
		defer file.Close()

		buf, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}

		size, _ := strconv.ParseUint(c.PostForm("size"), 10, 64)

		req := &coordinator.FullUploadRequest{
			Name:        c.PostForm("name"),
			Ext:         c.PostForm("ext"),
			FolderID:    c.PostForm("folder_id"),
			I:           c.PostForm("i"),
			IsSensitive: c.PostForm("isSensitive") == "true",
			Force:       c.PostForm("force") == "true",
			Size:        size,
			File:        buf,
		}

		resp, werr := coord.FullUpload(c.Request.Context(), req)
		if werr != nil {
			respondWithCode(c, werr)
			return
		}
		c.Data(resp.Status, "application/json", resp.Body)
	}
}
