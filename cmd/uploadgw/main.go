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

// Command uploadgw runs the upload-coordination HTTP service: it loads
// config.json (creating a documented-default one if missing), dials the
// object store, coordination cache, and NSFW model, then serves the
// upload surface until an interrupt or termination signal arrives.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/summaly-dev/upload-gateway/internal/api"
	"github.com/summaly-dev/upload-gateway/internal/backend"
	"github.com/summaly-dev/upload-gateway/internal/cache"
	"github.com/summaly-dev/upload-gateway/internal/config"
	"github.com/summaly-dev/upload-gateway/internal/coordinator"
	"github.com/summaly-dev/upload-gateway/internal/log"
	"github.com/summaly-dev/upload-gateway/internal/media"
	"github.com/summaly-dev/upload-gateway/internal/objectstore"
	"github.com/summaly-dev/upload-gateway/internal/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "loading config", log.F("error", err))
		os.Exit(1)
	}

	store, err := objectstore.NewMinio(objectstore.Config{
		Endpoint:  cfg.S3.Endpoint,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Secure:    !cfg.S3.PathStyle,
	})
	if err != nil {
		log.Error(ctx, "dialing object store", log.F("error", err))
		os.Exit(1)
	}

	redisCache := cache.NewRedis(cfg.Redis.Endpoint)
	defer redisCache.Close()

	sessions := session.NewStore(redisCache)
	be := backend.NewClient(cfg.Backend.Endpoint, cfg.Backend.Key)

	var classifier *media.Classifier
	if modelPath := os.Getenv("NSFW_MODEL_PATH"); modelPath != "" {
		classifier, err = media.LoadClassifier(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"), modelPath)
		if err != nil {
			log.Warn(ctx, "nsfw classifier unavailable, continuing without it", log.F("error", err))
			classifier = nil
		} else {
			defer classifier.Close()
		}
	}

	analyzer := media.NewAnalyzer(classifier, cfg.Ffmpeg)
	coord := coordinator.New(cfg, sessions, redisCache, store, be, analyzer)

	router := api.NewRouter(coord, cfg.AllowOrigin, "./index.html")

	srv := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: router,
	}

	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info(ctx, "listening", log.F("addr", cfg.BindAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "serving", log.F("error", err))
			os.Exit(1)
		}
	}()

	<-notifyCtx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", log.F("error", err))
	}
}
