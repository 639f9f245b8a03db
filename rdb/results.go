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
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

const (
	FuncAnalyze = "analyze"

	ResultTypeTokens ResultType = "tokens"
	ResultTypeError  ResultType = "error"
)

type ResultType string // @name ResultType

func (rt ResultType) String() string {
	return string(rt)
}

// ----------------

type AnalyzeArgs struct {
	Text string `json:"text"`
}

// WorkerResult is what a worker stores in Redis once it finishes a job.
// In case of an error, Value is empty and Error describes the problem.
type WorkerResult struct {
	WorkerID   string          `json:"workerId"`
	ResultType ResultType      `json:"resultType"`
	Value      json.RawMessage `json:"value,omitempty"`
	Error      string          `json:"error,omitempty"`
	ProcBegin  time.Time       `json:"procBegin"`
	ProcEnd    time.Time       `json:"procEnd"`
}

func (wr *WorkerResult) Err() error {
	if wr.ResultType == ResultTypeError || wr.Error != "" {
		return fmt.Errorf("worker %s failed: %s", wr.WorkerID, wr.Error)
	}
	return nil
}

// AttachValue serializes the value and stores it as
// the result's payload.
func (wr *WorkerResult) AttachValue(resultType ResultType, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to attach result value: %w", err)
	}
	wr.ResultType = resultType
	wr.Value = data
	return nil
}

func (wr *WorkerResult) AttachError(err error) {
	wr.ResultType = ResultTypeError
	wr.Value = nil
	wr.Error = err.Error()
}

func NewErrorResult(err error) *WorkerResult {
	ans := new(WorkerResult)
	ans.AttachError(err)
	return ans
}
