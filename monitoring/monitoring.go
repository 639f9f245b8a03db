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
	"time"

	"github.com/czcorpus/hltscl"
	"github.com/rs/zerolog/log"
)

/*
Expected tables:

create table glosa_operations_stats (
  "time" timestamp with time zone NOT NULL,
  num_requests int,
  num_errors int,
  text_length int,
  duration_secs float
);
select create_hypertable('glosa_operations_stats', 'time');

create table glosa_request_errors (
	"time" timestamp with time zone NOT NULL,
	error_kind text,
	num_errors int
);
select create_hypertable('glosa_request_errors', 'time');

*/

const (
	opsStatsTable      = "glosa_operations_stats"
	requestErrorsTable = "glosa_request_errors"
)

type Conf struct {
	// DB is optional. Without it, request statistics
	// are kept in memory only.
	DB *hltscl.PgConf `json:"db"`
}

type StatusWriter interface {
	Write(rec RequestLog)
}

type NullStatusWriter struct{}

func (n *NullStatusWriter) Write(rec RequestLog) {}

// -----------------------------------

type TimescaleDBWriter struct {
	tableWriter    *hltscl.TableWriter
	opsDataCh      chan<- hltscl.Entry
	errCh          <-chan hltscl.WriteError
	errTableWriter *hltscl.TableWriter
	errDataCh      chan<- hltscl.Entry
	errErrCh       <-chan hltscl.WriteError
	location       *time.Location
}

func (sw *TimescaleDBWriter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("about to close StatusWriter")
				return
			case err := <-sw.errCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", opsStatsTable).
					Msg("error writing data to TimescaleDB")
			case err := <-sw.errErrCh:
				log.Error().
					Err(err.Err).
					Str("entry", err.Entry.String()).
					Str("table", requestErrorsTable).
					Msg("error writing data to TimescaleDB")
			}
		}
	}()
}

func (sw *TimescaleDBWriter) Stop(ctx context.Context) error {
	log.Warn().Msg("stopping StatusWriter")
	return nil
}

func (sw *TimescaleDBWriter) Write(item RequestLog) {
	var numErr int
	if item.IsError() {
		numErr++
	}
	now := time.Now().In(sw.location)
	sw.opsDataCh <- *sw.tableWriter.NewEntry(now).
		Int("num_requests", 1).
		Int("num_errors", numErr).
		Int("text_length", item.TextLen).
		Float("duration_secs", item.TimeSpent().Seconds())

	if item.IsError() {
		sw.errDataCh <- *sw.errTableWriter.NewEntry(now).
			Str("error_kind", item.ErrorKind).
			Int("num_errors", 1)
	}
}

func NewTimescaleDBWriter(
	ctx context.Context,
	conf hltscl.PgConf,
	tz *time.Location,
) (*TimescaleDBWriter, error) {

	conn, err := hltscl.CreatePool(conf)
	if err != nil {
		return nil, err
	}
	twriter := hltscl.NewTableWriter(conn, opsStatsTable, "time", tz)
	opsDataCh, errCh := twriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	ewriter := hltscl.NewTableWriter(conn, requestErrorsTable, "time", tz)
	errDataCh, errErrCh := ewriter.Activate(
		ctx,
		hltscl.WithTimeout(20*time.Second),
	)

	return &TimescaleDBWriter{
		tableWriter:    twriter,
		opsDataCh:      opsDataCh,
		errCh:          errCh,
		errTableWriter: ewriter,
		errDataCh:      errDataCh,
		errErrCh:       errErrCh,
		location:       tz,
	}, nil
}
