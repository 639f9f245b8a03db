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
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"glosa/cnf"
	"glosa/docs"
	"glosa/general"
	"glosa/handlers"
	"glosa/monitoring"
	"glosa/nlp"
	"glosa/openapi"
	"glosa/rdb"
	"glosa/translation"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type serverInfo struct {
	Name             string              `json:"name"`
	Version          general.VersionInfo `json:"version"`
	AnalysisEngine   string              `json:"analysisEngine"`
	AnalysisExecutor string              `json:"analysisExecutor"`
} // @name ServerInfo

// ServerInfo godoc
// @Summary      Server info
// @Description  Shows basic information about the running service.
// @Tags         general
// @Produce      json
// @Success      200 {object} serverInfo
// @Router       / [get]
func mkServerInfo(conf *cnf.Conf, version general.VersionInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(
			ctx.Writer,
			serverInfo{
				Name:             "Glosa",
				Version:          version,
				AnalysisEngine:   conf.Analysis.Engine,
				AnalysisExecutor: conf.Analysis.Executor,
			},
		)
	}
}

type apiServer struct {
	server     *http.Server
	conf       *cnf.Conf
	version    general.VersionInfo
	analyzer   handlers.TokenAnalyzer
	translator handlers.Translator
	reqLogger  *monitoring.RequestLogger
}

func (api *apiServer) newEngine() *gin.Engine {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware())
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	actions := handlers.NewActions(api.analyzer, api.translator, api.reqLogger)
	monitoringActions := monitoring.NewActions(api.reqLogger, api.conf.TimezoneLocation())

	engine.GET("/", mkServerInfo(api.conf, api.version))

	engine.POST(
		"/analyze", actions.Analyze)

	engine.GET(
		"/monitoring/recent", monitoringActions.RecentRequests)

	engine.GET(
		"/monitoring/load", monitoringActions.RequestsLoad)

	docs.SwaggerInfo.Version = api.version.Version
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET(
		"/openapi", openapi.MkHandleRequest(api.conf.PublicURL, api.version.Version))

	return engine
}

func (api *apiServer) Start(ctx context.Context) {
	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      api.newEngine(),
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down Glosa HTTP API server")
	return api.server.Shutdown(ctx)
}

// loadPipeline creates the configured analysis pipeline and makes sure
// its model is available. Any failure terminates the process so
// no traffic is accepted without a working model.
func loadPipeline(ctx context.Context, conf *nlp.Conf) nlp.Pipeline {
	pipeline, err := nlp.NewPipeline(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create analysis pipeline")
	}
	lctx, cancel := context.WithTimeout(ctx, pipelineLoadTimeout)
	defer cancel()
	if err := pipeline.Load(lctx); err != nil {
		log.Fatal().Err(err).Str("engine", conf.Engine).Msg("failed to load analysis model")
	}
	log.Info().Str("pipeline", pipeline.Name()).Msg("analysis pipeline ready")
	return pipeline
}

func newStatusWriter(ctx context.Context, conf *cnf.Conf) (monitoring.StatusWriter, service) {
	if conf.Monitoring == nil || conf.Monitoring.DB == nil {
		return &monitoring.NullStatusWriter{}, nil
	}
	tsWriter, err := monitoring.NewTimescaleDBWriter(ctx, *conf.Monitoring.DB, conf.TimezoneLocation())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize TimescaleDB status writer")
	}
	return tsWriter, tsWriter
}

func runApiServer(
	conf *cnf.Conf,
	version general.VersionInfo,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var services []service
	var analyzer handlers.TokenAnalyzer
	switch conf.Analysis.Executor {
	case nlp.ExecutorRedis:
		radapter := rdb.NewAdapter(conf.Redis)
		defer radapter.Close()
		if err := radapter.TestConnection(ctx, redisConnectionTestTimeout); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
			return
		}
		numWorkers, err := radapter.NumListeningWorkers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to check analysis workers")
			return
		}
		if numWorkers == 0 {
			log.Warn().
				Str("channel", conf.Redis.ChannelQuery).
				Msg("no analysis worker is listening, requests will time out until one starts")

		} else {
			log.Info().Int64("numWorkers", numWorkers).Msg("found listening analysis workers")
		}
		analyzer = rdb.NewRemoteAnalyzer(
			radapter, time.Duration(conf.Redis.QueryAnswerTimeoutSecs)*time.Second)
		log.Info().Str("redis", conf.Redis.ServerInfo()).Msg("analysis jobs will be processed by remote workers")

	default:
		pool := nlp.NewPool(loadPipeline(ctx, conf.Analysis), conf.Analysis.NumWorkers)
		services = append(services, pool)
		analyzer = pool
	}

	statusWriter, swService := newStatusWriter(ctx, conf)
	if swService != nil {
		services = append(services, swService)
	}
	reqLogger := monitoring.NewRequestLogger(statusWriter)
	services = append(services, reqLogger)

	translator := translation.NewClient(conf.Translator)
	log.Info().Str("url", translator.URL()).Msg("using translation backend")

	server := &apiServer{
		conf:       conf,
		version:    version,
		analyzer:   analyzer,
		translator: translator,
		reqLogger:  reqLogger,
	}
	for _, m := range services {
		m.Start(ctx)
	}
	server.Start(ctx)

	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")
	stopServices(append([]service{server}, services...))
}
