// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"glosa/cnf"
	"glosa/general"
)

const (
	redisConnectionTestTimeout = 120 * time.Second
	pipelineLoadTimeout        = 5 * time.Minute
	shutdownTimeout            = 10 * time.Second
)

var (
	version   string
	buildDate string
	gitCommit string
)

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// stopServices stops the first service (typically a server accepting
// new work) and then all the remaining ones concurrently.
func stopServices(services []service) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if len(services) == 0 {
		return
	}
	if err := services[0].Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Type("service", services[0]).Msg("Error shutting down service")
	}

	var wg sync.WaitGroup
	for _, s := range services[1:] {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}

func getRequestOrigin(ctx *gin.Context) string {
	currOrigin, ok := ctx.Request.Header["Origin"]
	if ok {
		return currOrigin[0]
	}
	return ""
}

func additionalLogEvents() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logging.AddLogEvent(ctx, "userAgent", ctx.Request.UserAgent())
		ctx.Next()
	}
}

// CORSMiddleware allows any origin, method and header including
// credentials. As credentials cannot be combined with the `*` origin,
// the request's origin is echoed back.
func CORSMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		currOrigin := getRequestOrigin(ctx)
		if currOrigin != "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", currOrigin)
			ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			ctx.Writer.Header().Add("Vary", "Origin")

		} else {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}
		if reqHeaders := ctx.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Headers", reqHeaders)

		} else {
			ctx.Writer.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With",
			)
		}
		ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func loadConfig(path, envFile string) *cnf.Conf {
	conf := cnf.LoadConfig(path)
	if err := cnf.LoadDotEnv(envFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment file")
	}
	if err := cnf.ApplyEnvOverrides(conf); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply configuration overrides")
	}
	return conf
}

// @title        Glosa API
// @version      1.0
// @description  Translates German texts to English and provides their morpho-syntactic analysis.
// @license.name Apache 2.0
// @license.url  http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath     /
func main() {
	version := general.VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	envFile := flag.String("env-file", ".env", "a file with GLOSA_* environment variables (optional)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "GLOSA - German text analysis and translation server\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t%s [options] server [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] worker [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] test [config.json]\n\t", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "%s [options] version\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	action := flag.Arg(0)
	if action == "version" {
		fmt.Printf("glosa %s\nbuild date: %s\nlast commit: %s\n", version.Version, version.BuildDate, version.GitCommit)
		return
	}
	conf := loadConfig(flag.Arg(1), *envFile)

	if action == "test" {
		if err := cnf.ValidateAndDefaults(conf); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		log.Info().Msg("config OK")
		return
	}

	logging.SetupLogging(conf.Logging)
	if action == "worker" {
		log.Logger = log.Logger.With().Str("worker", getWorkerID()).Logger()
	}

	log.Info().Msg("Starting Glosa")
	if err := cnf.ValidateAndDefaults(conf); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	switch action {
	case "server":
		runApiServer(conf, version)
	case "worker":
		runWorker(conf)
	default:
		log.Fatal().Msgf("Unknown action %s", action)
	}
}
