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

package nlp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"glosa/merror"

	"github.com/rs/zerolog/log"
)

var (
	ErrPoolStopped = errors.New("analysis pool stopped")
)

type jobResult struct {
	tokens TokenList
	err    error
}

type job struct {
	ctx    context.Context
	text   string
	result chan<- jobResult
}

// Pool runs a pipeline in a fixed number of worker goroutines
// so the (CPU bound, blocking) analysis never runs on the request
// goroutine. A caller submits a job and waits for its result channel.
type Pool struct {
	pipeline   Pipeline
	numWorkers int
	jobs       chan job
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func (p *Pool) Pipeline() Pipeline {
	return p.pipeline
}

func (p *Pool) runProtected(j job) (ans jobResult) {
	defer func() {
		if r := recover(); r != nil {
			ans = jobResult{err: merror.PanicValueToErr(r)}
			log.Error().
				Err(ans.err).
				Msg("analysis job panicked")
		}
	}()
	tokens, err := p.pipeline.Process(j.ctx, j.text)
	return jobResult{tokens: tokens, err: err}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			log.Debug().Int("workerId", id).Msg("analysis worker exiting")
			return
		case j := <-p.jobs:
			t0 := time.Now()
			ans := p.runProtected(j)
			log.Debug().
				Int("workerId", id).
				Int("numTokens", len(ans.tokens)).
				Float64("procTime", time.Since(t0).Seconds()).
				Msg("analysis job finished")
			j.result <- ans
		}
	}
}

// Analyze submits the text to the pool and waits for the result.
func (p *Pool) Analyze(ctx context.Context, text string) (TokenList, error) {
	result := make(chan jobResult, 1)
	select {
	case p.jobs <- job{ctx: ctx, text: text, result: result}:
	case <-p.done:
		return nil, ErrPoolStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to submit analysis job: %w", ctx.Err())
	}
	select {
	case ans := <-result:
		return ans.tokens, ans.err
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for analysis job: %w", ctx.Err())
	}
}

func (p *Pool) Start(ctx context.Context) {
	log.Info().
		Int("numWorkers", p.numWorkers).
		Str("pipeline", p.pipeline.Name()).
		Msg("starting analysis worker pool")
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping analysis worker pool")
	p.stopOnce.Do(func() {
		close(p.done)
	})
	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return p.pipeline.Close()
	case <-ctx.Done():
		return fmt.Errorf("analysis workers did not finish in time: %w", ctx.Err())
	}
}

func NewPool(pipeline Pipeline, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		pipeline:   pipeline,
		numWorkers: numWorkers,
		jobs:       make(chan job),
		done:       make(chan struct{}),
	}
}
