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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/httpclient"
	"github.com/rs/zerolog/log"
)

const (
	maxReportedBodyLength = 200
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format,omitempty"`
}

type translateResponse struct {
	TranslatedText *string `json:"translatedText"`
}

// Client talks to a LibreTranslate-compatible `/translate` endpoint.
// Each call is an independent request - there is no retry and no caching.
type Client struct {
	conf   *Conf
	client *http.Client
}

func (c *Client) URL() string {
	return c.conf.URL
}

// Translate sends the text to the backend and returns its `translatedText`
// verbatim. Possible errors are ConnectionError, StatusError and
// MalformedResponseError.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	payload, err := sonic.Marshal(translateRequest{
		Q:      text,
		Source: c.conf.SourceLang,
		Target: c.conf.TargetLang,
		Format: c.conf.Format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode translation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", ConnectionError{URL: c.conf.URL, Cause: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ConnectionError{URL: c.conf.URL, Cause: err}
	}
	log.Debug().
		Str("url", c.conf.URL).
		Int("status", resp.StatusCode).
		Float64("procTime", time.Since(t0).Seconds()).
		Msg("received translation response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", StatusError{
			URL:        c.conf.URL,
			StatusCode: resp.StatusCode,
			Body:       shortenBody(body),
		}
	}
	var ans translateResponse
	if err := sonic.Unmarshal(body, &ans); err != nil {
		return "", MalformedResponseError{Msg: "failed to decode JSON", Cause: err}
	}
	if ans.TranslatedText == nil {
		return "", MalformedResponseError{Msg: "missing field `translatedText`"}
	}
	return *ans.TranslatedText, nil
}

func shortenBody(body []byte) string {
	if len(body) > maxReportedBodyLength {
		return string(body[:maxReportedBodyLength]) + "..."
	}
	return string(body)
}

func NewClient(conf *Conf) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = time.Duration(conf.IdleConnTimeoutSecs) * time.Second
	return &Client{
		conf: conf,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
}
