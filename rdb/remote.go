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

package rdb

import (
	"context"
	"fmt"
	"time"

	"glosa/merror"
	"glosa/nlp"

	"github.com/bytedance/sonic"
)

type queryPublisher interface {
	PublishQuery(ctx context.Context, query Query) (<-chan *WorkerResult, error)
}

// RemoteAnalyzer sends analysis jobs to worker processes
// via Redis and waits for their results.
type RemoteAnalyzer struct {
	publisher queryPublisher
	timeout   time.Duration
}

func (ra *RemoteAnalyzer) Analyze(ctx context.Context, text string) (nlp.TokenList, error) {
	args, err := sonic.Marshal(AnalyzeArgs{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare analysis job: %w", err)
	}
	tctx, cancel := context.WithTimeout(ctx, ra.timeout)
	defer cancel()
	wait, err := ra.publisher.PublishQuery(tctx, Query{Func: FuncAnalyze, Args: args})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch analysis job: %w", err)
	}
	select {
	case result, ok := <-wait:
		if !ok || result == nil {
			return nil, merror.TimeoutError{
				Msg: fmt.Sprintf("no worker responded within %s", ra.timeout)}
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		var tokens nlp.TokenList
		if err := sonic.Unmarshal(result.Value, &tokens); err != nil {
			return nil, fmt.Errorf("failed to decode analysis result: %w", err)
		}
		return tokens.AlwaysAsList(), nil
	case <-tctx.Done():
		return nil, merror.TimeoutError{
			Msg: fmt.Sprintf("no worker responded within %s", ra.timeout)}
	}
}

func NewRemoteAnalyzer(publisher queryPublisher, timeout time.Duration) *RemoteAnalyzer {
	return &RemoteAnalyzer{
		publisher: publisher,
		timeout:   timeout,
	}
}
