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
	"net/http"
	"time"

	"github.com/czcorpus/cnc-gokit/datetime"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

const (
	dfltLoadInterval = "1h"
)

type recentResponse struct {
	Recent  RequestsSummary `json:"recent"`
	Total   RequestsSummary `json:"total"`
	Records []RequestLog    `json:"records"`
}

type Actions struct {
	logger   *RequestLogger
	location *time.Location
}

// RecentRequests godoc
// @Summary      Recent requests
// @Description  Summary of the most recent analysis requests together with the raw records.
// @Tags         monitoring
// @Produce      json
// @Success      200 {object} recentResponse
// @Router       /monitoring/recent [get]
func (a *Actions) RecentRequests(ctx *gin.Context) {
	uniresp.WriteJSONResponse(
		ctx.Writer,
		recentResponse{
			Recent:  a.logger.RecentSummary(),
			Total:   a.logger.TotalSummary(),
			Records: a.logger.RecentRecords(),
		},
	)
}

// RequestsLoad godoc
// @Summary      Requests load
// @Description  Summary of the recent requests which ended within the specified time interval.
// @Tags         monitoring
// @Produce      json
// @Param        ago query string false "interval (e.g. 10m, 2h)" default(1h)
// @Success      200 {object} RequestsSummary
// @Router       /monitoring/load [get]
func (a *Actions) RequestsLoad(ctx *gin.Context) {
	now := time.Now().In(a.location)
	dur, err := datetime.ParseDuration(ctx.DefaultQuery("ago", dfltLoadInterval))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusUnprocessableEntity)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, a.logger.SummaryBetween(now.Add(-dur), now))
}

func NewActions(
	logger *RequestLogger,
	location *time.Location,
) *Actions {
	return &Actions{
		logger:   logger,
		location: location,
	}
}
