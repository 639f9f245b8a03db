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
	"errors"
	"testing"
	"time"

	"glosa/merror"
	"glosa/nlp"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	lastQuery Query
	respond   func(q Query) *WorkerResult
	err       error
}

func (fp *fakePublisher) PublishQuery(ctx context.Context, query Query) (<-chan *WorkerResult, error) {
	fp.lastQuery = query
	if fp.err != nil {
		return nil, fp.err
	}
	ans := make(chan *WorkerResult, 1)
	go func() {
		defer close(ans)
		if fp.respond == nil {
			<-ctx.Done()
			return
		}
		ans <- fp.respond(query)
	}()
	return ans, nil
}

func TestQueryRoundTrip(t *testing.T) {
	q := Query{Channel: "glosaResults:1", Func: FuncAnalyze, Args: []byte(`{"text":"Hallo"}`)}
	enc, err := q.ToJSON()
	require.NoError(t, err)
	dec, err := DecodeQuery(enc)
	require.NoError(t, err)
	assert.Equal(t, q.Channel, dec.Channel)
	assert.Equal(t, q.Func, dec.Func)
	assert.JSONEq(t, `{"text":"Hallo"}`, string(dec.Args))
}

func TestWorkerResultErr(t *testing.T) {
	var wr WorkerResult
	require.NoError(t, wr.AttachValue(ResultTypeTokens, nlp.TokenList{}))
	assert.NoError(t, wr.Err())
	assert.Equal(t, "[]", string(wr.Value))

	wr.AttachError(errors.New("model crashed"))
	assert.Error(t, wr.Err())
	assert.Equal(t, ResultTypeError, wr.ResultType)
	assert.Nil(t, wr.Value)
}

func TestRemoteAnalyzer(t *testing.T) {
	pub := &fakePublisher{
		respond: func(q Query) *WorkerResult {
			var args AnalyzeArgs
			if err := sonic.Unmarshal(q.Args, &args); err != nil {
				return NewErrorResult(err)
			}
			ans := &WorkerResult{WorkerID: "w1"}
			ans.AttachValue(
				ResultTypeTokens,
				nlp.TokenList{nlp.NewToken(args.Text, "PROPN", "root", args.Text, nil)},
			)
			return ans
		},
	}
	ra := NewRemoteAnalyzer(pub, time.Second)
	tokens, err := ra.Analyze(context.Background(), "Joe")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Joe", tokens[0].Text)
	assert.Equal(t, FuncAnalyze, pub.lastQuery.Func)
}

func TestRemoteAnalyzerWorkerError(t *testing.T) {
	pub := &fakePublisher{
		respond: func(q Query) *WorkerResult {
			return NewErrorResult(errors.New("model crashed"))
		},
	}
	ra := NewRemoteAnalyzer(pub, time.Second)
	_, err := ra.Analyze(context.Background(), "Joe")
	assert.ErrorContains(t, err, "model crashed")
}

func TestRemoteAnalyzerTimeout(t *testing.T) {
	ra := NewRemoteAnalyzer(&fakePublisher{}, 20*time.Millisecond)
	_, err := ra.Analyze(context.Background(), "Joe")
	assert.ErrorAs(t, err, &merror.TimeoutError{})
}

func TestRemoteAnalyzerPublishError(t *testing.T) {
	ra := NewRemoteAnalyzer(&fakePublisher{err: errors.New("connection refused")}, time.Second)
	_, err := ra.Analyze(context.Background(), "Joe")
	assert.ErrorContains(t, err, "connection refused")
}

func TestConfDefaults(t *testing.T) {
	conf := &Conf{}
	require.NoError(t, conf.ValidateAndDefaults("redis"))
	assert.Equal(t, "localhost:6379", conf.ServerInfo())
	assert.Equal(t, DefaultQueueKey, conf.QueueKey)
	assert.Equal(t, DefaultQueryChannel, conf.ChannelQuery)
	assert.Equal(t, DefaultResultChannelPrefix, conf.ChannelResultPrefix)
	assert.Equal(t, dfltQueryAnswerTimeoutSecs, conf.QueryAnswerTimeoutSecs)

	var nilConf *Conf
	assert.Error(t, nilConf.ValidateAndDefaults("redis"))
	assert.Error(t, (&Conf{QueryAnswerTimeoutSecs: -1}).ValidateAndDefaults("redis"))
}
