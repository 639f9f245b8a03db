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

package translation

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
)

const (
	DefaultURL              = "http://localhost:5000/translate"
	DefaultSourceLang       = "de"
	DefaultTargetLang       = "en"
	DefaultFormat           = "text"
	dfltIdleConnTimeoutSecs = 60
)

// Conf configures access to a LibreTranslate-compatible
// translation backend.
type Conf struct {
	URL        string `json:"url"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Format     string `json:"format"`

	// RequestTimeoutSecs limits a single translation request.
	// Zero means no limit (the transport defaults apply).
	RequestTimeoutSecs  int `json:"requestTimeoutSecs"`
	IdleConnTimeoutSecs int `json:"idleConnTimeoutSecs"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.URL == "" {
		conf.URL = DefaultURL
		log.Warn().
			Str("url", conf.URL).
			Msgf("%s.url not specified, using default", confContext)
	}
	if _, err := url.ParseRequestURI(conf.URL); err != nil {
		return fmt.Errorf("invalid %s.url: %w", confContext, err)
	}
	if conf.SourceLang == "" {
		conf.SourceLang = DefaultSourceLang
	}
	if conf.TargetLang == "" {
		conf.TargetLang = DefaultTargetLang
	}
	if conf.SourceLang == conf.TargetLang {
		return fmt.Errorf("%s.sourceLang and %s.targetLang must be different", confContext, confContext)
	}
	if conf.Format == "" {
		conf.Format = DefaultFormat
	}
	if conf.RequestTimeoutSecs < 0 {
		return fmt.Errorf("%s.requestTimeoutSecs must be a non-negative number", confContext)
	}
	if conf.IdleConnTimeoutSecs == 0 {
		conf.IdleConnTimeoutSecs = dfltIdleConnTimeoutSecs
	}
	return nil
}
