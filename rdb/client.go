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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	MsgNewQuery                = "newQuery"
	DefaultQueueKey            = "glosaQueue"
	DefaultResultChannelPrefix = "glosaResults"
	DefaultQueryChannel        = "glosaQueries"
	DefaultResultExpiration    = 10 * time.Minute
)

var (
	ErrorEmptyQueue = errors.New("no queries in the queue")
)

type Query struct {
	Channel string          `json:"channel"`
	Func    string          `json:"func"`
	Args    json.RawMessage `json:"args"`
}

func (q Query) ToJSON() (string, error) {
	return sonic.MarshalString(q)
}

func DecodeQuery(q string) (Query, error) {
	var ans Query
	err := sonic.UnmarshalString(q, &ans)
	return ans, err
}

// Adapter provides a job queue on top of Redis. Queries are pushed
// to a list, workers are notified via a pub/sub channel and each query
// gets its own result channel identified by a UUID.
type Adapter struct {
	c                   *redis.Client
	queueKey            string
	channelQuery        string
	channelResultPrefix string
}

// TestConnection pings the server until it responds or
// until the timeout is reached.
func (a *Adapter) TestConnection(ctx context.Context, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		err := a.c.Ping(tctx).Err()
		if err == nil {
			log.Info().Str("server", a.c.Options().Addr).Msg("connected to Redis")
			return nil
		}
		log.Warn().Err(err).Msg("failed to connect to Redis, retrying")
		select {
		case <-tctx.Done():
			return fmt.Errorf("failed to connect to Redis %s: %w", a.c.Options().Addr, err)
		case <-ticker.C:
		}
	}
}

func (a *Adapter) SomeoneListens(ctx context.Context, query Query) (bool, error) {
	cmd := a.c.PubSubNumSub(ctx, query.Channel)
	if cmd.Err() != nil {
		return false, fmt.Errorf("failed to check channel listeners: %w", cmd.Err())
	}
	return cmd.Val()[query.Channel] > 0, nil
}

// NumListeningWorkers returns the number of clients subscribed
// to the channel announcing new queries.
func (a *Adapter) NumListeningWorkers(ctx context.Context) (int64, error) {
	cmd := a.c.PubSubNumSub(ctx, a.channelQuery)
	if cmd.Err() != nil {
		return 0, fmt.Errorf("failed to check listening workers: %w", cmd.Err())
	}
	return cmd.Val()[a.channelQuery], nil
}

func (a *Adapter) fetchResult(ctx context.Context, key string) *WorkerResult {
	cmd := a.c.Get(ctx, key)
	if cmd.Err() != nil {
		return NewErrorResult(fmt.Errorf("failed to fetch result: %w", cmd.Err()))
	}
	result := new(WorkerResult)
	if err := sonic.UnmarshalString(cmd.Val(), result); err != nil {
		return NewErrorResult(fmt.Errorf("failed to decode result: %w", err))
	}
	return result
}

// PublishQuery enqueues a new query and returns a channel the result
// will be sent to. The channel is closed without any value in case the
// context is done before a worker responds.
func (a *Adapter) PublishQuery(ctx context.Context, query Query) (<-chan *WorkerResult, error) {
	query.Channel = fmt.Sprintf("%s:%s", a.channelResultPrefix, uuid.New().String())
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Msg("publishing query")

	msg, err := query.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to publish query: %w", err)
	}
	// we must be subscribed before any worker can see the query
	sub := a.c.Subscribe(ctx, query.Channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to result channel: %w", err)
	}
	if err := a.c.LPush(ctx, a.queueKey, msg).Err(); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to publish query: %w", err)
	}
	ans := make(chan *WorkerResult, 1)

	// now we wait for response and send result via `ans`
	go func() {
		defer close(ans)
		defer sub.Close()
		select {
		case item, ok := <-sub.Channel():
			if !ok {
				return
			}
			ans <- a.fetchResult(ctx, item.Payload)
		case <-ctx.Done():
			log.Warn().
				Str("channel", query.Channel).
				Msg("stopped waiting for query result")
		}
	}()
	if err := a.c.Publish(ctx, a.channelQuery, MsgNewQuery).Err(); err != nil {
		return ans, fmt.Errorf("failed to notify workers: %w", err)
	}
	return ans, nil
}

func (a *Adapter) DequeueQuery(ctx context.Context) (Query, error) {
	cmd := a.c.RPop(ctx, a.queueKey)
	if cmd.Err() == redis.Nil {
		return Query{}, ErrorEmptyQueue

	} else if cmd.Err() != nil {
		return Query{}, fmt.Errorf("failed to dequeue query: %w", cmd.Err())
	}
	q, err := DecodeQuery(cmd.Val())
	if err != nil {
		return Query{}, fmt.Errorf("failed to deserialize query: %w", err)
	}
	return q, nil
}

// PublishResult stores the result under the channel name
// and notifies the waiting subscriber.
func (a *Adapter) PublishResult(ctx context.Context, channelName string, value *WorkerResult) error {
	log.Debug().
		Str("channel", channelName).
		Str("resultType", value.ResultType.String()).
		Msg("publishing result")
	data, err := sonic.MarshalString(value)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := a.c.Set(ctx, channelName, data, DefaultResultExpiration).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return a.c.Publish(ctx, channelName, channelName).Err()
}

// Subscribe subscribes to the channel announcing new queries.
func (a *Adapter) Subscribe(ctx context.Context) *redis.PubSub {
	return a.c.Subscribe(ctx, a.channelQuery)
}

func (a *Adapter) Close() error {
	return a.c.Close()
}

// NewAdapter creates a new adapter. The configuration is expected
// to be validated already.
func NewAdapter(conf *Conf) *Adapter {
	return &Adapter{
		c: redis.NewClient(&redis.Options{
			Addr:     conf.ServerInfo(),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		queueKey:            conf.QueueKey,
		channelQuery:        conf.ChannelQuery,
		channelResultPrefix: conf.ChannelResultPrefix,
	}
}
