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
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"glosa/nlp"
	"glosa/rdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	sync.Mutex
	queries   []rdb.Query
	listening bool
	published map[string]*rdb.WorkerResult
}

func (fq *fakeQueue) DequeueQuery(ctx context.Context) (rdb.Query, error) {
	fq.Lock()
	defer fq.Unlock()
	if len(fq.queries) == 0 {
		return rdb.Query{}, rdb.ErrorEmptyQueue
	}
	ans := fq.queries[0]
	fq.queries = fq.queries[1:]
	return ans, nil
}

func (fq *fakeQueue) SomeoneListens(ctx context.Context, query rdb.Query) (bool, error) {
	return fq.listening, nil
}

func (fq *fakeQueue) PublishResult(ctx context.Context, channelName string, value *rdb.WorkerResult) error {
	fq.Lock()
	defer fq.Unlock()
	fq.published[channelName] = value
	return nil
}

func (fq *fakeQueue) result(channel string) *rdb.WorkerResult {
	fq.Lock()
	defer fq.Unlock()
	return fq.published[channel]
}

type fakeAnalyzer struct{}

func (fa fakeAnalyzer) Analyze(ctx context.Context, text string) (nlp.TokenList, error) {
	switch text {
	case "panic":
		panic("model crashed")
	case "fail":
		return nil, errors.New("model failed")
	}
	var ans nlp.TokenList
	for _, w := range strings.Fields(text) {
		ans = append(ans, nlp.NewToken(w, "X", "dep", w, nil))
	}
	return ans, nil
}

func mkQuery(t *testing.T, channel, fn, text string) rdb.Query {
	args, err := sonic.Marshal(rdb.AnalyzeArgs{Text: text})
	require.NoError(t, err)
	return rdb.Query{Channel: channel, Func: fn, Args: args}
}

func newTestWorker(queue *fakeQueue) *Worker {
	return NewWorker("test", queue, make(chan *redis.Message), fakeAnalyzer{})
}

func TestTryNextQuery(t *testing.T) {
	queue := &fakeQueue{
		listening: true,
		published: make(map[string]*rdb.WorkerResult),
	}
	queue.queries = []rdb.Query{mkQuery(t, "ch1", rdb.FuncAnalyze, "Mein Name ist Joe")}
	w := newTestWorker(queue)
	require.NoError(t, w.tryNextQuery(context.Background()))

	res := queue.result("ch1")
	require.NotNil(t, res)
	assert.NoError(t, res.Err())
	assert.Equal(t, rdb.ResultTypeTokens, res.ResultType)
	var tokens nlp.TokenList
	require.NoError(t, sonic.Unmarshal(res.Value, &tokens))
	assert.Len(t, tokens, 4)
	assert.Equal(t, "test", res.WorkerID)
	assert.False(t, res.ProcEnd.Before(res.ProcBegin))
}

func TestTryNextQueryEmptyText(t *testing.T) {
	queue := &fakeQueue{listening: true, published: make(map[string]*rdb.WorkerResult)}
	queue.queries = []rdb.Query{mkQuery(t, "ch1", rdb.FuncAnalyze, "")}
	w := newTestWorker(queue)
	require.NoError(t, w.tryNextQuery(context.Background()))
	res := queue.result("ch1")
	require.NotNil(t, res)
	assert.Equal(t, "[]", string(res.Value))
}

func TestTryNextQueryErrors(t *testing.T) {
	queue := &fakeQueue{listening: true, published: make(map[string]*rdb.WorkerResult)}
	queue.queries = []rdb.Query{
		mkQuery(t, "ch1", rdb.FuncAnalyze, "panic"),
		mkQuery(t, "ch2", rdb.FuncAnalyze, "fail"),
		mkQuery(t, "ch3", "translate", "Hallo"),
		{Channel: "ch4", Func: rdb.FuncAnalyze, Args: []byte(`"foo"`)},
	}
	w := newTestWorker(queue)
	for i := 0; i < 4; i++ {
		require.NoError(t, w.tryNextQuery(context.Background()))
	}
	assert.ErrorContains(t, queue.result("ch1").Err(), "worker panicked")
	assert.ErrorContains(t, queue.result("ch2").Err(), "model failed")
	assert.ErrorContains(t, queue.result("ch3").Err(), "unknown query function")
	assert.ErrorContains(t, queue.result("ch4").Err(), "invalid analysis arguments")
}

func TestTryNextQueryInactive(t *testing.T) {
	queue := &fakeQueue{published: make(map[string]*rdb.WorkerResult)}
	queue.queries = []rdb.Query{mkQuery(t, "ch1", rdb.FuncAnalyze, "Hallo")}
	w := newTestWorker(queue)
	require.NoError(t, w.tryNextQuery(context.Background()))
	assert.Nil(t, queue.result("ch1"))
}

func TestListenReactsToMessages(t *testing.T) {
	queue := &fakeQueue{listening: true, published: make(map[string]*rdb.WorkerResult)}
	queue.queries = []rdb.Query{mkQuery(t, "ch1", rdb.FuncAnalyze, "Hallo Welt")}
	messages := make(chan *redis.Message)
	w := NewWorker("test", queue, messages, fakeAnalyzer{})
	w.Start(context.Background())
	defer w.Stop(context.Background())
	messages <- &redis.Message{Payload: rdb.MsgNewQuery}
	assert.Eventually(
		t,
		func() bool { return queue.result("ch1") != nil },
		time.Second,
		10*time.Millisecond,
	)
}

func TestWorkerServesRemoteAnalyzer(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	conf := &rdb.Conf{Host: mr.Host(), Port: port}
	require.NoError(t, conf.ValidateAndDefaults("redis"))
	adapter := rdb.NewAdapter(conf)
	defer adapter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := adapter.Subscribe(ctx)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	w := NewWorker("w1", adapter, sub.Channel(), fakeAnalyzer{})
	w.Start(ctx)
	defer w.Stop(ctx)

	remote := rdb.NewRemoteAnalyzer(adapter, 3*time.Second)
	tokens, err := remote.Analyze(ctx, "Mein Name ist Joe")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "Joe", tokens[3].Text)

	_, err = remote.Analyze(ctx, "fail")
	assert.ErrorContains(t, err, "model failed")
}
