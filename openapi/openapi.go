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

func NewResponse(ver, url string) *Response {
	paths := make(map[string]Methods)

	paths["/"] = Methods{
		Get: &Method{
			Description: "Shows basic information about the running service.",
			OperationID: "ServerInfo",
			Tags:        []string{"general"},
			Responses: MethodResponses{
				200: jsonResponse("service information", "ServerInfo"),
			},
		},
	}

	paths["/analyze"] = Methods{
		Post: &Method{
			Description: "Translates a German text to English and analyzes its tokens " +
				"(part of speech, dependency relation, lemma and morphological features). " +
				"Both operations run concurrently and the request fails as a whole if any of them fails.",
			OperationID: "Analyze",
			Tags:        []string{"analysis"},
			RequestBody: &RequestBody{
				Description: "a text to analyze",
				Required:    true,
				Content: map[string]MediaType{
					"application/json": {Schema: schemaRef("AnalysisRequest")},
				},
			},
			Responses: MethodResponses{
				200: jsonResponse("analysis result", "AnalysisResponse"),
				400: jsonResponse("missing or malformed `text`", "ErrorResponse"),
				500: jsonResponse("analysis failed", "ErrorResponse"),
				502: jsonResponse("translation backend returned an error or a malformed response", "ErrorResponse"),
				503: jsonResponse("translation backend unreachable", "ErrorResponse"),
			},
		},
	}

	paths["/monitoring/recent"] = Methods{
		Get: &Method{
			Description: "Shows a summary of recently processed requests.",
			OperationID: "RecentRequests",
			Tags:        []string{"monitoring"},
			Responses: MethodResponses{
				200: {Description: "recent requests summary and records"},
			},
		},
	}

	paths["/monitoring/load"] = Methods{
		Get: &Method{
			Description: "Shows a summary of the recent requests which ended within a time interval.",
			OperationID: "RequestsLoad",
			Tags:        []string{"monitoring"},
			Parameters: []Parameter{
				{
					Name:        "ago",
					In:          "query",
					Description: "time interval (e.g. 30m, 2h). By default, 1h is used.",
					Required:    false,
					Schema: ParamSchema{
						Type:    "string",
						Default: "1h",
					},
				},
			},
			Responses: MethodResponses{
				200: jsonResponse("requests summary", "RequestsSummary"),
			},
		},
	}

	return &Response{
		OpenAPI: "3.1.0",
		Info: Info{
			Title:       "Glosa - German text analysis",
			Description: "Translates German texts to English and provides their morpho-syntactic analysis",
			Version:     ver,
		},
		Servers: []Server{
			{URL: url},
		},
		Paths: paths,
		Components: Components{
			Schemas: createSchemas(),
		},
	}
}
