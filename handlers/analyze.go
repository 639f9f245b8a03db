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

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"glosa/merror"
	"glosa/monitoring"
	"glosa/nlp"
	"glosa/translation"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	ErrKindTranslationUnreachable = "translationUnreachable"
	ErrKindTranslationMalformed   = "translationMalformed"
	ErrKindTranslationStatus      = "translationStatus"
	ErrKindAnalysisFailed         = "analysisFailed"
	ErrKindInvalidRequest         = "invalidRequest"
)

// TokenAnalyzer produces annotated tokens for a text. The call
// is expected to run the blocking model outside of the calling
// goroutine (a worker pool or a remote worker).
type TokenAnalyzer interface {
	Analyze(ctx context.Context, text string) (nlp.TokenList, error)
}

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type requestLogger interface {
	Log(rec monitoring.RequestLog)
}

type analysisRequest struct {
	Text *string `json:"text"`
} // @name AnalysisRequest

type analysisResponse struct {
	Original    string      `json:"original"`
	Translation string      `json:"translation"`
	Tokens      []nlp.Token `json:"tokens"`
} // @name AnalysisResponse

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
} // @name ErrorResponse

type Actions struct {
	analyzer   TokenAnalyzer
	translator Translator
	reqLogger  requestLogger
}

// classifyError maps a failed sub-operation to an HTTP status
// and an error kind.
func classifyError(translErr, analysisErr error) (int, string, error) {
	if translErr != nil {
		var connErr translation.ConnectionError
		var malfErr translation.MalformedResponseError
		var statusErr translation.StatusError
		switch {
		case errors.As(translErr, &connErr):
			return http.StatusServiceUnavailable, ErrKindTranslationUnreachable, translErr
		case errors.As(translErr, &malfErr):
			return http.StatusBadGateway, ErrKindTranslationMalformed, translErr
		case errors.As(translErr, &statusErr):
			return http.StatusBadGateway, ErrKindTranslationStatus, translErr
		default:
			return http.StatusServiceUnavailable, ErrKindTranslationUnreachable, translErr
		}
	}
	return http.StatusInternalServerError, ErrKindAnalysisFailed, analysisErr
}

func (a *Actions) respondWithError(ctx *gin.Context, status int, kind string, err error) {
	ctx.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Kind: kind})
}

func (a *Actions) logRequest(rec monitoring.RequestLog) {
	rec.End = time.Now()
	a.reqLogger.Log(rec)
}

// Analyze godoc
// @Summary      Analyze a German text
// @Description  Translates the text to English and runs a morpho-syntactic analysis of the original. Both operations run concurrently and the request fails as a whole if any of them fails.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request body analysisRequest true "text to analyze"
// @Success      200 {object} analysisResponse
// @Failure      400 {object} errorResponse
// @Failure      500 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Failure      503 {object} errorResponse
// @Router       /analyze [post]
func (a *Actions) Analyze(ctx *gin.Context) {
	rec := monitoring.RequestLog{Begin: time.Now()}
	var req analysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		rec.ErrorKind = ErrKindInvalidRequest
		a.logRequest(rec)
		a.respondWithError(
			ctx, http.StatusBadRequest, ErrKindInvalidRequest,
			merror.InputError{Msg: fmt.Sprintf("invalid request body: %s", err)})
		return
	}
	if req.Text == nil {
		rec.ErrorKind = ErrKindInvalidRequest
		a.logRequest(rec)
		a.respondWithError(
			ctx, http.StatusBadRequest, ErrKindInvalidRequest, merror.InputError{Msg: "missing field `text`"})
		return
	}
	text := *req.Text
	rec.TextLen = len([]rune(text))
	logging.AddLogEvent(ctx, "textLength", rec.TextLen)

	var tokens nlp.TokenList
	var translated string
	var translErr, analysisErr error
	var grp errgroup.Group
	grp.Go(func() error {
		tokens, analysisErr = a.analyzer.Analyze(ctx.Request.Context(), text)
		return analysisErr
	})
	grp.Go(func() error {
		translated, translErr = a.translator.Translate(ctx.Request.Context(), text)
		return translErr
	})
	if err := grp.Wait(); err != nil {
		status, kind, cause := classifyError(translErr, analysisErr)
		log.Error().
			Err(cause).
			Str("kind", kind).
			Int("status", status).
			Msg("failed to analyze text")
		rec.ErrorKind = kind
		a.logRequest(rec)
		a.respondWithError(ctx, status, kind, cause)
		return
	}
	rec.NumTokens = len(tokens)
	a.logRequest(rec)
	uniresp.WriteJSONResponse(
		ctx.Writer,
		analysisResponse{
			Original:    text,
			Translation: translated,
			Tokens:      tokens.AlwaysAsList(),
		},
	)
}

func NewActions(
	analyzer TokenAnalyzer,
	translator Translator,
	reqLogger requestLogger,
) *Actions {
	return &Actions{
		analyzer:   analyzer,
		translator: translator,
		reqLogger:  reqLogger,
	}
}
