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
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"glosa/cnf"
	"glosa/nlp"
	"glosa/rdb"
	"glosa/worker"

	"github.com/rs/zerolog/log"
)

func getWorkerID() (workerID string) {
	workerID = os.Getenv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

func runWorker(conf *cnf.Conf) {
	if !conf.UsesRedis() {
		log.Fatal().Msg("the worker action requires analysis.executor to be `redis`")
		return
	}
	workerID := getWorkerID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	radapter := rdb.NewAdapter(conf.Redis)
	defer radapter.Close()
	err := radapter.TestConnection(ctx, redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	pool := nlp.NewPool(loadPipeline(ctx, conf.Analysis), conf.Analysis.NumWorkers)
	services := []service{}
	for i := 0; i < conf.Analysis.NumWorkers; i++ {
		sub := radapter.Subscribe(ctx)
		defer sub.Close()
		wrk := worker.NewWorker(fmt.Sprintf("%s-%d", workerID, i), radapter, sub.Channel(), pool)
		services = append(services, wrk)
	}
	// the pool must be the last one to stop
	pool.Start(ctx)
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")
	stopServices(services)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down analysis pool")
	}
}
