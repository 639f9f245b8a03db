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

package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"glosa/merror"
	"glosa/nlp"
	"glosa/rdb"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTickerInterval = 2 * time.Second
)

type queryQueue interface {
	DequeueQuery(ctx context.Context) (rdb.Query, error)
	SomeoneListens(ctx context.Context, query rdb.Query) (bool, error)
	PublishResult(ctx context.Context, channelName string, value *rdb.WorkerResult) error
}

type analyzer interface {
	Analyze(ctx context.Context, text string) (nlp.TokenList, error)
}

// Worker takes analysis jobs from the Redis queue, runs them
// and publishes their results.
type Worker struct {
	ID       string
	messages <-chan *redis.Message
	queue    queryQueue
	analyzer analyzer
	ticker   *time.Ticker
	done     chan struct{}
}

func (w *Worker) analyze(ctx context.Context, query rdb.Query) *rdb.WorkerResult {
	ans := &rdb.WorkerResult{WorkerID: w.ID, ProcBegin: time.Now()}
	defer func() {
		ans.ProcEnd = time.Now()
	}()
	var args rdb.AnalyzeArgs
	if err := sonic.Unmarshal(query.Args, &args); err != nil {
		ans.AttachError(merror.InputError{Msg: fmt.Sprintf("invalid analysis arguments: %s", err)})
		return ans
	}
	tokens, err := w.analyzer.Analyze(ctx, args.Text)
	if err != nil {
		ans.AttachError(err)
		return ans
	}
	if err := ans.AttachValue(rdb.ResultTypeTokens, tokens.AlwaysAsList()); err != nil {
		ans.AttachError(err)
	}
	return ans
}

func (w *Worker) runQueryProtected(ctx context.Context, query rdb.Query) (ans *rdb.WorkerResult) {
	defer func() {
		if r := recover(); r != nil {
			err := merror.PanicValueToErr(r)
			log.Error().Err(err).Str("func", query.Func).Msg("worker panicked")
			ans = rdb.NewErrorResult(fmt.Errorf("worker panicked: %w", err))
			ans.WorkerID = w.ID
		}
	}()
	switch query.Func {
	case rdb.FuncAnalyze:
		return w.analyze(ctx, query)
	default:
		ans = rdb.NewErrorResult(fmt.Errorf("unknown query function: %s", query.Func))
		ans.WorkerID = w.ID
		return ans
	}
}

func (w *Worker) tryNextQuery(ctx context.Context) error {
	// a little randomness lowers the chance of all the workers
	// hitting the queue at the same moment
	time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
	query, err := w.queue.DequeueQuery(ctx)
	if errors.Is(err, rdb.ErrorEmptyQueue) {
		return nil

	} else if err != nil {
		return err
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Msg("received query")

	isActive, err := w.queue.SomeoneListens(ctx, query)
	if err != nil {
		return err
	}
	if !isActive {
		log.Warn().
			Str("func", query.Func).
			Str("channel", query.Channel).
			Msg("worker found an inactive query")
		return nil
	}
	ans := w.runQueryProtected(ctx, query)
	if err := w.queue.PublishResult(ctx, query.Channel, ans); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	log.Debug().
		Str("workerId", w.ID).
		Str("resultType", ans.ResultType.String()).
		Float64("procTime", ans.ProcEnd.Sub(ans.ProcBegin).Seconds()).
		Msg("query processed")
	return nil
}

func (w *Worker) handleNextQuery(ctx context.Context) {
	if err := w.tryNextQuery(ctx); err != nil {
		log.Error().Err(err).Str("workerId", w.ID).Msg("failed to process query")
	}
}

// Listen processes queries until the context is done or
// the worker is stopped. Besides reacting to new query messages,
// the queue is checked periodically so no query is left behind
// in case a message is missed.
func (w *Worker) Listen(ctx context.Context) {
	for {
		select {
		case <-w.ticker.C:
			w.handleNextQuery(ctx)
		case <-ctx.Done():
			log.Info().Str("workerId", w.ID).Msg("worker exiting")
			return
		case <-w.done:
			log.Info().Str("workerId", w.ID).Msg("worker exiting")
			return
		case msg, ok := <-w.messages:
			if !ok {
				log.Warn().Str("workerId", w.ID).Msg("query channel closed, worker exiting")
				return
			}
			if msg.Payload == rdb.MsgNewQuery {
				w.handleNextQuery(ctx)
			}
		}
	}
}

func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("workerId", w.ID).Msg("starting worker")
	go w.Listen(ctx)
}

func (w *Worker) Stop(ctx context.Context) error {
	log.Warn().Str("workerId", w.ID).Msg("stopping worker")
	w.ticker.Stop()
	close(w.done)
	return nil
}

func NewWorker(
	workerID string,
	queue queryQueue,
	messages <-chan *redis.Message,
	analyzer analyzer,
) *Worker {
	return &Worker{
		ID:       workerID,
		queue:    queue,
		messages: messages,
		analyzer: analyzer,
		ticker:   time.NewTicker(DefaultTickerInterval),
		done:     make(chan struct{}),
	}
}
