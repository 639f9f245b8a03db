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
	"context"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/rs/zerolog/log"
)

const (
	RecentLogSize          = 100
	dfltReportIntervalSecs = 60
	writeQueueSize         = 1000
)

// RequestLogger keeps a bounded log of recent requests and
// a summary of all requests since the service started. Each record
// is also passed to a StatusWriter. The writer is called from the
// logger's own goroutine (see Start), never from the caller of Log.
type RequestLogger struct {
	dataLock       sync.RWMutex
	recentLog      *collections.CircularList[RequestLog]
	total          RequestsSummary
	statusWriter   StatusWriter
	writeQueue     chan RequestLog
	reportInterval time.Duration
}

// Log stores the record and queues it for the status writer.
// It never blocks; with the queue full, the record is not written.
func (w *RequestLogger) Log(rec RequestLog) {
	w.dataLock.Lock()
	w.recentLog.Append(rec)
	w.total.add(rec)
	w.dataLock.Unlock()
	select {
	case w.writeQueue <- rec:
	default:
		log.Warn().
			Str("errorKind", rec.ErrorKind).
			Msg("status writer queue full, dropping request record")
	}
}

func (w *RequestLogger) TotalSummary() RequestsSummary {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	return w.total
}

// RecentSummary summarizes requests kept in the recent log.
func (w *RequestLogger) RecentSummary() RequestsSummary {
	return w.SummaryBetween(time.Time{}, time.Now())
}

// SummaryBetween summarizes recent requests which ended
// within the [from, to] interval.
func (w *RequestLogger) SummaryBetween(from, to time.Time) RequestsSummary {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	var ans RequestsSummary
	w.recentLog.ForEach(func(i int, item RequestLog) bool {
		if item.End.Before(from) || item.End.After(to) {
			return true
		}
		ans.add(item)
		return true
	})
	return ans
}

func (w *RequestLogger) RecentRecords() []RequestLog {
	w.dataLock.RLock()
	defer w.dataLock.RUnlock()
	ans := make([]RequestLog, w.recentLog.Len())
	w.recentLog.ForEach(func(i int, item RequestLog) bool {
		ans[i] = item
		return true
	})
	return ans
}

func (w *RequestLogger) Start(ctx context.Context) {
	log.Info().Msg("starting request logger")
	go func() {
		ticker := time.NewTicker(w.reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("requesting request logger stop")
				return
			case rec := <-w.writeQueue:
				w.statusWriter.Write(rec)
			case <-ticker.C:
				summ := w.RecentSummary()
				if summ.NumRequests > 0 {
					log.Info().
						Int("numRequests", summ.NumRequests).
						Int("numErrors", summ.NumErrors).
						Float64("avgTimeSecs", summ.AvgTimeSecs()).
						Msg("recent requests")
				}
			}
		}
	}()
}

func (w *RequestLogger) Stop(ctx context.Context) error {
	log.Info().Msg("shutting down request logger")
	return nil
}

func NewRequestLogger(statusWriter StatusWriter) *RequestLogger {
	if statusWriter == nil {
		statusWriter = &NullStatusWriter{}
	}
	return &RequestLogger{
		recentLog:      collections.NewCircularList[RequestLog](RecentLogSize),
		statusWriter:   statusWriter,
		writeQueue:     make(chan RequestLog, writeQueueSize),
		reportInterval: dfltReportIntervalSecs * time.Second,
	}
}
