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
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	language "cloud.google.com/go/language/apiv1"
	"cloud.google.com/go/language/apiv1/languagepb"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	gcloudProbeText     = "Mein Name ist Joe"
	gcloudUnknownSuffix = "UNKNOWN"
)

var (
	// Google's tagset is close to the universal one, we just
	// rename the few differing tags
	gcloudPOSTags = map[string]string{
		"CONJ":    "CCONJ",
		"PRT":     "PART",
		"AFFIX":   "X",
		"UNKNOWN": "X",
	}

	gcloudDepLabels = map[string]string{
		"P":       "punct",
		"UNKNOWN": "dep",
	}

	gcloudFeatValues = map[string]map[string]string{
		"Case": {
			"NOMINATIVE":    "Nom",
			"ACCUSATIVE":    "Acc",
			"DATIVE":        "Dat",
			"GENITIVE":      "Gen",
			"VOCATIVE":      "Voc",
			"ABLATIVE":      "Abl",
			"INSTRUMENTAL":  "Ins",
			"LOCATIVE":      "Loc",
			"PARTITIVE":     "Par",
			"ADVERBIAL":     "Adv",
			"COMPLEMENTIVE": "Com",
			"RELATIVE_CASE": "Rel",
			"OBLIQUE":       "Obl",
		},
		"Number": {
			"SINGULAR": "Sing",
			"PLURAL":   "Plur",
			"DUAL":     "Dual",
		},
		"Gender": {
			"FEMININE":  "Fem",
			"MASCULINE": "Masc",
			"NEUTER":    "Neut",
		},
		"Person": {
			"FIRST":            "1",
			"SECOND":           "2",
			"THIRD":            "3",
			"REFLEXIVE_PERSON": "Refl",
		},
		"Tense": {
			"PRESENT":           "Pres",
			"PAST":              "Past",
			"FUTURE":            "Fut",
			"IMPERFECT":         "Imp",
			"PLUPERFECT":        "Pqp",
			"CONDITIONAL_TENSE": "Cnd",
		},
		"Mood": {
			"INDICATIVE":       "Ind",
			"IMPERATIVE":       "Imp",
			"SUBJUNCTIVE":      "Sub",
			"CONDITIONAL_MOOD": "Cnd",
			"INTERROGATIVE":    "Int",
			"JUSSIVE":          "Jus",
		},
		"Voice": {
			"ACTIVE":    "Act",
			"PASSIVE":   "Pass",
			"CAUSATIVE": "Cau",
		},
		"Aspect": {
			"PERFECTIVE":   "Perf",
			"IMPERFECTIVE": "Imp",
			"PROGRESSIVE":  "Prog",
		},
	}
)

// GCloud is a pipeline backed by the Google Cloud Natural Language
// syntax analysis.
type GCloud struct {
	conf   *GCloudConf
	client *language.Client
}

func (g *GCloud) Name() string {
	return fmt.Sprintf("%s:%s", EngineGCloud, g.conf.Language)
}

func (g *GCloud) clientOptions() ([]option.ClientOption, error) {
	if g.conf.CredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(g.conf.CredentialsFile)}, nil
	}
	if g.conf.CredentialsEnvVar != "" {
		encoded := os.Getenv(g.conf.CredentialsEnvVar)
		if encoded == "" {
			return nil, fmt.Errorf("environment variable %s is empty", g.conf.CredentialsEnvVar)
		}
		creds, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode credentials from %s: %w", g.conf.CredentialsEnvVar, err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
	}
	return []option.ClientOption{}, nil
}

// Load creates the client and runs a probe analysis so
// a misconfigured account is revealed on startup.
func (g *GCloud) Load(ctx context.Context) error {
	opts, err := g.clientOptions()
	if err != nil {
		return fmt.Errorf("failed to create Natural Language client: %w", err)
	}
	g.client, err = language.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Natural Language client: %w", err)
	}
	if _, err := g.Process(ctx, gcloudProbeText); err != nil {
		return fmt.Errorf("Natural Language probe failed: %w", err)
	}
	log.Info().
		Str("language", g.conf.Language).
		Msg("Google Cloud Natural Language client ready")
	return nil
}

func (g *GCloud) Process(ctx context.Context, text string) (TokenList, error) {
	if text == "" {
		return TokenList{}, nil
	}
	if g.client == nil {
		return nil, fmt.Errorf("Natural Language client not loaded")
	}
	req := &languagepb.AnalyzeSyntaxRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type:     languagepb.Document_PLAIN_TEXT,
			Language: g.conf.Language,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}
	resp, err := g.client.AnalyzeSyntax(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeSyntax error: %w", err)
	}
	ans := make(TokenList, len(resp.GetTokens()))
	for i, t := range resp.GetTokens() {
		ans[i] = convertGCloudToken(t)
	}
	return ans, nil
}

func (g *GCloud) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func gcloudFeatValue(feat, value string) string {
	if v, ok := gcloudFeatValues[feat][value]; ok {
		return v
	}
	return value
}

func convertGCloudToken(t *languagepb.Token) Token {
	pos := t.GetPartOfSpeech()
	rawFeats := [][2]string{
		{"Case", pos.GetCase().String()},
		{"Number", pos.GetNumber().String()},
		{"Gender", pos.GetGender().String()},
		{"Person", pos.GetPerson().String()},
		{"Tense", pos.GetTense().String()},
		{"Mood", pos.GetMood().String()},
		{"Voice", pos.GetVoice().String()},
		{"Aspect", pos.GetAspect().String()},
	}
	morph := make(map[string]string)
	for _, f := range rawFeats {
		if strings.HasSuffix(f[1], gcloudUnknownSuffix) {
			continue
		}
		morph[f[0]] = gcloudFeatValue(f[0], f[1])
	}

	tag := pos.GetTag().String()
	if v, ok := gcloudPOSTags[tag]; ok {
		tag = v
	}
	dep := t.GetDependencyEdge().GetLabel().String()
	if v, ok := gcloudDepLabels[dep]; ok {
		dep = v
	} else {
		dep = strings.ToLower(dep)
	}
	return NewToken(t.GetText().GetContent(), tag, dep, t.GetLemma(), morph)
}

func NewGCloud(conf *GCloudConf) *GCloud {
	return &GCloud{conf: conf}
}
