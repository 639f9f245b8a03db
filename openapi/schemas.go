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

func jsonResponse(description, schemaName string) MethodResponse {
	return MethodResponse{
		Description: description,
		Content: map[string]MediaType{
			"application/json": {Schema: schemaRef(schemaName)},
		},
	}
}

func createSchemas() ObjectProperties {
	ans := make(ObjectProperties)
	ans["AnalysisRequest"] = ObjectProperty{
		Type:     "object",
		Required: []string{"text"},
		Properties: ObjectProperties{
			"text": ObjectProperty{
				Type:        "string",
				Description: "a German text to analyze (may be empty)",
			},
		},
	}
	ans["Token"] = ObjectProperty{
		Type:     "object",
		Required: []string{"text", "pos", "dep", "lemma", "morph", "case"},
		Properties: ObjectProperties{
			"text": ObjectProperty{
				Type:        "string",
				Description: "surface form as it appears in the text",
			},
			"pos": ObjectProperty{
				Type:        "string",
				Description: "Universal Dependencies part-of-speech tag",
			},
			"dep": ObjectProperty{
				Type:        "string",
				Description: "dependency relation to the syntactic head",
			},
			"lemma": ObjectProperty{
				Type: "string",
			},
			"morph": ObjectProperty{
				Type:                 "object",
				AdditionalProperties: &ObjectProperty{Type: "string"},
				Description:          "morphological features (e.g. Case, Number, Gender)",
			},
			"case": ObjectProperty{
				Type:        []string{"string", "null"},
				Description: "grammatical case (same as morph.Case), null if not applicable",
			},
		},
	}
	ans["AnalysisResponse"] = ObjectProperty{
		Type:     "object",
		Required: []string{"original", "translation", "tokens"},
		Properties: ObjectProperties{
			"original": ObjectProperty{
				Type: "string",
			},
			"translation": ObjectProperty{
				Type:        "string",
				Description: "English translation of the original text",
			},
			"tokens": ObjectProperty{
				Type:  "array",
				Items: &ObjectProperty{Ref: "#/components/schemas/Token"},
			},
		},
	}
	ans["ErrorResponse"] = ObjectProperty{
		Type:     "object",
		Required: []string{"error", "kind"},
		Properties: ObjectProperties{
			"error": ObjectProperty{
				Type: "string",
			},
			"kind": ObjectProperty{
				Type: "string",
				Enum: []any{
					"invalidRequest", "translationUnreachable", "translationMalformed",
					"translationStatus", "analysisFailed",
				},
			},
		},
	}
	ans["RequestsSummary"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"numRequests": ObjectProperty{
				Type: "integer",
			},
			"numErrors": ObjectProperty{
				Type: "integer",
			},
			"totalTimeSecs": ObjectProperty{
				Type: "number",
			},
			"avgTimeSecs": ObjectProperty{
				Type: "number",
			},
			"firstUpdate": ObjectProperty{
				Type:   "string",
				Format: "date-time",
			},
			"lastUpdate": ObjectProperty{
				Type:   "string",
				Format: "date-time",
			},
			"errorKinds": ObjectProperty{
				Type:                 "object",
				AdditionalProperties: &ObjectProperty{Type: "integer"},
			},
		},
	}
	ans["ServerInfo"] = ObjectProperty{
		Type: "object",
		Properties: ObjectProperties{
			"name": ObjectProperty{
				Type: "string",
			},
			"version": ObjectProperty{
				Type: "object",
				Properties: ObjectProperties{
					"version": ObjectProperty{
						Type: "string",
					},
					"buildDate": ObjectProperty{
						Type: "string",
					},
					"gitCommit": ObjectProperty{
						Type: "string",
					},
				},
			},
			"analysisEngine": ObjectProperty{
				Type: "string",
			},
			"analysisExecutor": ObjectProperty{
				Type: "string",
				Enum: []any{"local", "redis"},
			},
		},
	}
	return ans
}
