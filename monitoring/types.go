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

package monitoring

import (
	"time"

	"github.com/bytedance/sonic"
)

// RequestLog describes a single processed analysis request.
type RequestLog struct {
	Begin     time.Time `json:"begin"`
	End       time.Time `json:"end"`
	TextLen   int       `json:"textLength"`
	NumTokens int       `json:"numTokens"`

	// ErrorKind is empty for successful requests
	ErrorKind string `json:"errorKind,omitempty"`
}

func (rl RequestLog) TimeSpent() time.Duration {
	return rl.End.Sub(rl.Begin)
}

func (rl RequestLog) IsError() bool {
	return rl.ErrorKind != ""
}

// ---

// RequestsSummary aggregates a number of request logs
type RequestsSummary struct {
	NumRequests   int
	NumErrors     int
	TotalTimeSecs float64
	FirstUpdate   time.Time
	LastUpdate    time.Time
	ErrorKinds    map[string]int
}

func (rs *RequestsSummary) add(rec RequestLog) {
	if rs.NumRequests == 0 || rec.Begin.Before(rs.FirstUpdate) {
		rs.FirstUpdate = rec.Begin
	}
	if rec.End.After(rs.LastUpdate) {
		rs.LastUpdate = rec.End
	}
	rs.NumRequests++
	if rec.IsError() {
		rs.NumErrors++
		if rs.ErrorKinds == nil {
			rs.ErrorKinds = make(map[string]int)
		}
		rs.ErrorKinds[rec.ErrorKind]++
	}
	rs.TotalTimeSecs += rec.TimeSpent().Seconds()
}

// TotalSpan returns time span covered by the summary
func (rs RequestsSummary) TotalSpan() time.Duration {
	return rs.LastUpdate.Sub(rs.FirstUpdate)
}

func (rs RequestsSummary) AvgTimeSecs() float64 {
	if rs.NumRequests == 0 {
		return 0
	}
	return rs.TotalTimeSecs / float64(rs.NumRequests)
}

func (rs RequestsSummary) MarshalJSON() ([]byte, error) {
	var t0, t1 *time.Time
	if !rs.FirstUpdate.IsZero() {
		t0 = &rs.FirstUpdate
	}
	if !rs.LastUpdate.IsZero() {
		t1 = &rs.LastUpdate
	}
	errKinds := rs.ErrorKinds
	if errKinds == nil {
		errKinds = map[string]int{}
	}
	return sonic.Marshal(
		struct {
			NumRequests   int            `json:"numRequests"`
			NumErrors     int            `json:"numErrors"`
			TotalTimeSecs float64        `json:"totalTimeSecs"`
			AvgTimeSecs   float64        `json:"avgTimeSecs"`
			FirstUpdate   *time.Time     `json:"firstUpdate,omitempty"`
			LastUpdate    *time.Time     `json:"lastUpdate,omitempty"`
			ErrorKinds    map[string]int `json:"errorKinds"`
		}{
			NumRequests:   rs.NumRequests,
			NumErrors:     rs.NumErrors,
			TotalTimeSecs: rs.TotalTimeSecs,
			AvgTimeSecs:   rs.AvgTimeSecs(),
			FirstUpdate:   t0,
			LastUpdate:    t1,
			ErrorKinds:    errKinds,
		},
	)
}
