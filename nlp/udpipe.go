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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/httpclient"
	"github.com/rs/zerolog/log"
)

type udpipeModels struct {
	Models       map[string][]string `json:"models"`
	DefaultModel string              `json:"default_model"`
}

// findModel returns the first (alphabetically) available model
// matching the configured name or prefix.
func (m udpipeModels) findModel(name string) (string, bool) {
	names := make([]string, 0, len(m.Models))
	for k := range m.Models {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if strings.HasPrefix(k, name) {
			return k, true
		}
	}
	return "", false
}

type udpipeResult struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// UDPipe is a pipeline backed by a locally running UDPipe REST server
// (https://lindat.mff.cuni.cz/services/udpipe/) with a German model.
// The server performs tokenization, tagging, lemmatization and
// dependency parsing and returns CoNLL-U.
type UDPipe struct {
	conf        *UDPipeConf
	client      *http.Client
	loadedModel string
}

func (u *UDPipe) Name() string {
	if u.loadedModel != "" {
		return fmt.Sprintf("%s:%s", EngineUDPipe, u.loadedModel)
	}
	return EngineUDPipe
}

func (u *UDPipe) endpoint(path string) (string, error) {
	return url.JoinPath(u.conf.URL, path)
}

func (u *UDPipe) Load(ctx context.Context) error {
	modelsURL, err := u.endpoint("models")
	if err != nil {
		return fmt.Errorf("failed to load UDPipe model: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to load UDPipe model: %w", err)
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load UDPipe model: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to load UDPipe model: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to load UDPipe model: server responded with status %d", resp.StatusCode)
	}
	var models udpipeModels
	if err := sonic.Unmarshal(body, &models); err != nil {
		return fmt.Errorf("failed to load UDPipe model: %w", err)
	}
	model, ok := models.findModel(u.conf.Model)
	if !ok {
		return fmt.Errorf("failed to load UDPipe model: model `%s` not available", u.conf.Model)
	}
	u.loadedModel = model
	log.Info().
		Str("url", u.conf.URL).
		Str("model", model).
		Msg("UDPipe model available")
	return nil
}

func (u *UDPipe) Process(ctx context.Context, text string) (TokenList, error) {
	if text == "" {
		return TokenList{}, nil
	}
	processURL, err := u.endpoint("process")
	if err != nil {
		return nil, fmt.Errorf("failed to process text: %w", err)
	}
	model := u.loadedModel
	if model == "" {
		model = u.conf.Model
	}
	form := url.Values{}
	form.Set("data", text)
	form.Set("model", model)
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("parser", "")
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, processURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to process text: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to process text: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to process text: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"failed to process text: UDPipe responded with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var result udpipeResult
	if err := sonic.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode UDPipe response: %w", err)
	}
	return ParseCoNLLU(result.Result)
}

func (u *UDPipe) Close() error {
	u.client.CloseIdleConnections()
	return nil
}

func NewUDPipe(conf *UDPipeConf) *UDPipe {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	return &UDPipe{
		conf: conf,
		client: &http.Client{
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
}
