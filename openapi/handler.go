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

package openapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

func findHTTPProtocol(req *http.Request) string {
	if prot := req.Header.Get("x-forwarded-proto"); prot != "" {
		return prot
	}
	if req.TLS != nil {
		return "https"
	}
	return "http"
}

func findHTTPServer(req *http.Request) string {
	if serv := req.Header.Get("x-forwarded-host"); serv != "" {
		return serv
	}
	return req.Host
}

// findCurrentPublicURL returns the configured public URL in case
// the request was made via it (possibly through a proxy). Otherwise,
// the URL is derived from the request.
func findCurrentPublicURL(publicURL string, req *http.Request) string {
	host := findHTTPServer(req)
	curr := fmt.Sprintf("%s://%s", findHTTPProtocol(req), host)
	if publicURL != "" && (host == "" || strings.HasPrefix(publicURL, curr)) {
		return publicURL
	}
	return curr
}

func MkHandleRequest(publicURL, ver string) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		ans := NewResponse(ver, findCurrentPublicURL(publicURL, ctx.Request))
		uniresp.WriteJSONResponse(ctx.Writer, ans)
	}
}
