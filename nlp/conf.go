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
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
)

const (
	EngineUDPipe = "udpipe"
	EngineGCloud = "gcloud"

	ExecutorLocal = "local"
	ExecutorRedis = "redis"

	dfltUDPipeURL          = "http://localhost:8001"
	dfltUDPipeModel        = "german-gsd"
	dfltGCloudLanguage     = "de"
	dfltRequestTimeoutSecs = 60
)

type UDPipeConf struct {
	URL string `json:"url"`

	// Model is a model name or its prefix as understood by
	// the UDPipe server (e.g. `german-gsd`).
	Model              string `json:"model"`
	RequestTimeoutSecs int    `json:"requestTimeoutSecs"`
}

type GCloudConf struct {
	Language string `json:"language"`

	// CredentialsFile is a path to a service account JSON file.
	// If empty, CredentialsEnvVar is tried and then the application
	// default credentials.
	CredentialsFile string `json:"credentialsFile"`

	// CredentialsEnvVar names an environment variable containing
	// base64-encoded service account JSON.
	CredentialsEnvVar string `json:"credentialsEnvVar"`
}

// Conf configures the analysis part of the service.
type Conf struct {
	Engine string `json:"engine"`

	// Executor is either `local` (in-process worker pool) or `redis`
	// (jobs are dispatched to separate worker processes).
	Executor   string      `json:"executor"`
	NumWorkers int         `json:"numWorkers"`
	UDPipe     *UDPipeConf `json:"udpipe"`
	GCloud     *GCloudConf `json:"gcloud"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.Engine == "" {
		conf.Engine = EngineUDPipe
		log.Warn().
			Str("engine", conf.Engine).
			Msgf("%s.engine not specified, using default", confContext)
	}
	switch conf.Engine {
	case EngineUDPipe:
		if conf.UDPipe == nil {
			conf.UDPipe = &UDPipeConf{}
		}
		if conf.UDPipe.URL == "" {
			conf.UDPipe.URL = dfltUDPipeURL
			log.Warn().
				Str("url", conf.UDPipe.URL).
				Msgf("%s.udpipe.url not specified, using default", confContext)
		}
		if conf.UDPipe.Model == "" {
			conf.UDPipe.Model = dfltUDPipeModel
			log.Warn().
				Str("model", conf.UDPipe.Model).
				Msgf("%s.udpipe.model not specified, using default", confContext)
		}
		if conf.UDPipe.RequestTimeoutSecs == 0 {
			conf.UDPipe.RequestTimeoutSecs = dfltRequestTimeoutSecs
		}
	case EngineGCloud:
		if conf.GCloud == nil {
			conf.GCloud = &GCloudConf{}
		}
		if conf.GCloud.Language == "" {
			conf.GCloud.Language = dfltGCloudLanguage
		}
	default:
		return fmt.Errorf("unknown %s.engine `%s`", confContext, conf.Engine)
	}

	if conf.Executor == "" {
		conf.Executor = ExecutorLocal
	}
	if conf.Executor != ExecutorLocal && conf.Executor != ExecutorRedis {
		return fmt.Errorf("unknown %s.executor `%s`", confContext, conf.Executor)
	}
	if conf.NumWorkers < 0 {
		return fmt.Errorf("%s.numWorkers must be a non-negative number", confContext)
	}
	if conf.NumWorkers == 0 {
		conf.NumWorkers = runtime.NumCPU()
		log.Warn().
			Int("numWorkers", conf.NumWorkers).
			Msgf("%s.numWorkers not specified, using number of CPUs", confContext)
	}
	return nil
}
