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
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	dfltHost                   = "localhost"
	dfltPort                   = 6379
	dfltQueryAnswerTimeoutSecs = 60
)

// Conf configures the Redis based job queue used
// when analysis runs in separate worker processes.
type Conf struct {
	Host                string `json:"host"`
	Port                int    `json:"port"`
	DB                  int    `json:"db"`
	Password            string `json:"password"`
	QueueKey            string `json:"queueKey"`
	ChannelQuery        string `json:"channelQuery"`
	ChannelResultPrefix string `json:"channelResultPrefix"`

	// QueryAnswerTimeoutSecs limits how long the API server waits
	// for a worker to process a job.
	QueryAnswerTimeoutSecs int `json:"queryAnswerTimeoutSecs"`
}

func (conf *Conf) ServerInfo() string {
	return fmt.Sprintf("%s:%d", conf.Host, conf.Port)
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.Host == "" {
		conf.Host = dfltHost
		log.Warn().
			Str("host", conf.Host).
			Msgf("%s.host not specified, using default", confContext)
	}
	if conf.Port == 0 {
		conf.Port = dfltPort
		log.Warn().
			Int("port", conf.Port).
			Msgf("%s.port not specified, using default", confContext)
	}
	if conf.QueueKey == "" {
		conf.QueueKey = DefaultQueueKey
	}
	if conf.ChannelQuery == "" {
		conf.ChannelQuery = DefaultQueryChannel
		log.Warn().
			Str("channel", conf.ChannelQuery).
			Msgf("%s.channelQuery not specified, using default", confContext)
	}
	if conf.ChannelResultPrefix == "" {
		conf.ChannelResultPrefix = DefaultResultChannelPrefix
		log.Warn().
			Str("channel", conf.ChannelResultPrefix).
			Msgf("%s.channelResultPrefix not specified, using default", confContext)
	}
	if conf.QueryAnswerTimeoutSecs < 0 {
		return fmt.Errorf("%s.queryAnswerTimeoutSecs must be a non-negative number", confContext)
	}
	if conf.QueryAnswerTimeoutSecs == 0 {
		conf.QueryAnswerTimeoutSecs = dfltQueryAnswerTimeoutSecs
	}
	return nil
}
