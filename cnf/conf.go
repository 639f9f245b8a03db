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

package cnf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"glosa/monitoring"
	"glosa/nlp"
	"glosa/rdb"
	"glosa/translation"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	dfltListenAddress          = "localhost"
	dfltListenPort             = 8000
	dfltServerReadTimeoutSecs  = 10
	dfltServerWriteTimeoutSecs = 90
	dfltTimeZone               = "Europe/Berlin"

	EnvPrefix = "GLOSA_"
)

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string              `json:"listenAddress"`
	PublicURL              string              `json:"publicUrl"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	Analysis               *nlp.Conf           `json:"analysis"`
	Translator             *translation.Conf   `json:"translator"`
	Redis                  *rdb.Conf           `json:"redis"`
	Monitoring             *monitoring.Conf    `json:"monitoring"`
	Logging                logging.LoggingConf `json:"logging"`
	TimeZone               string              `json:"timeZone"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.Logging.Level.IsDebugMode()
}

func (conf *Conf) UsesRedis() bool {
	return conf.Analysis != nil && conf.Analysis.Executor == nlp.ExecutorRedis
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call c.Validate()
	// first (which also tries to load the location and report possible
	// error)
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

// LoadDotEnv loads variables from an `.env` file (if present) into
// the process environment. Already set variables are not overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("loaded environment variables from file")
	return nil
}

type envOverride struct {
	name  string
	apply func(conf *Conf, value string) error
}

func envInt(value string, target *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func (conf *Conf) analysisConf() *nlp.Conf {
	if conf.Analysis == nil {
		conf.Analysis = &nlp.Conf{}
	}
	return conf.Analysis
}

func (conf *Conf) udpipeConf() *nlp.UDPipeConf {
	aConf := conf.analysisConf()
	if aConf.UDPipe == nil {
		aConf.UDPipe = &nlp.UDPipeConf{}
	}
	return aConf.UDPipe
}

func (conf *Conf) gcloudConf() *nlp.GCloudConf {
	aConf := conf.analysisConf()
	if aConf.GCloud == nil {
		aConf.GCloud = &nlp.GCloudConf{}
	}
	return aConf.GCloud
}

func (conf *Conf) translatorConf() *translation.Conf {
	if conf.Translator == nil {
		conf.Translator = &translation.Conf{}
	}
	return conf.Translator
}

func (conf *Conf) redisConf() *rdb.Conf {
	if conf.Redis == nil {
		conf.Redis = &rdb.Conf{}
	}
	return conf.Redis
}

var envOverrides = []envOverride{
	{"LISTEN_ADDRESS", func(conf *Conf, v string) error {
		conf.ListenAddress = v
		return nil
	}},
	{"LISTEN_PORT", func(conf *Conf, v string) error {
		return envInt(v, &conf.ListenPort)
	}},
	{"PUBLIC_URL", func(conf *Conf, v string) error {
		conf.PublicURL = v
		return nil
	}},
	{"LOG_LEVEL", func(conf *Conf, v string) error {
		conf.Logging.Level = logging.LogLevel(v)
		return nil
	}},
	{"TRANSLATOR_URL", func(conf *Conf, v string) error {
		conf.translatorConf().URL = v
		return nil
	}},
	{"TRANSLATOR_TIMEOUT_SECS", func(conf *Conf, v string) error {
		return envInt(v, &conf.translatorConf().RequestTimeoutSecs)
	}},
	{"ANALYSIS_ENGINE", func(conf *Conf, v string) error {
		conf.analysisConf().Engine = v
		return nil
	}},
	{"ANALYSIS_EXECUTOR", func(conf *Conf, v string) error {
		conf.analysisConf().Executor = v
		return nil
	}},
	{"ANALYSIS_NUM_WORKERS", func(conf *Conf, v string) error {
		return envInt(v, &conf.analysisConf().NumWorkers)
	}},
	{"UDPIPE_URL", func(conf *Conf, v string) error {
		conf.udpipeConf().URL = v
		return nil
	}},
	{"UDPIPE_MODEL", func(conf *Conf, v string) error {
		conf.udpipeConf().Model = v
		return nil
	}},
	{"GCLOUD_CREDENTIALS_FILE", func(conf *Conf, v string) error {
		conf.gcloudConf().CredentialsFile = v
		return nil
	}},
	{"REDIS_HOST", func(conf *Conf, v string) error {
		conf.redisConf().Host = v
		return nil
	}},
	{"REDIS_PORT", func(conf *Conf, v string) error {
		return envInt(v, &conf.redisConf().Port)
	}},
	{"REDIS_PASSWORD", func(conf *Conf, v string) error {
		conf.redisConf().Password = v
		return nil
	}},
}

// ApplyEnvOverrides replaces configuration values by the ones
// found in GLOSA_* environment variables.
func ApplyEnvOverrides(conf *Conf) error {
	for _, ov := range envOverrides {
		name := EnvPrefix + ov.name
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := ov.apply(conf, value); err != nil {
			return fmt.Errorf("invalid value of %s: %w", name, err)
		}
		log.Info().Str("variable", name).Msg("applying configuration override from environment")
	}
	return nil
}

func ValidateAndDefaults(conf *Conf) error {
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Msgf("listenAddress not specified, using default: %s", dfltListenAddress)
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Msgf("listenPort not specified, using default: %d", dfltListenPort)
	}
	if conf.ServerReadTimeoutSecs == 0 {
		conf.ServerReadTimeoutSecs = dfltServerReadTimeoutSecs
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default: %d",
			dfltServerReadTimeoutSecs,
		)
	}
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s:%d", conf.ListenAddress, conf.ListenPort)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}
	if err := conf.analysisConf().ValidateAndDefaults("analysis"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := conf.translatorConf().ValidateAndDefaults("translator"); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if conf.UsesRedis() {
		if err := conf.redisConf().ValidateAndDefaults("redis"); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if conf.Monitoring == nil {
		conf.Monitoring = &monitoring.Conf{}
	}
	if conf.Monitoring.DB == nil {
		log.Warn().Msg("monitoring.db not specified, request statistics will be kept in memory only")
	}
	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	return nil
}
