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

const (
	FeatCase = "Case"
)

// Token is a flat projection of a single token produced
// by an NLP pipeline.
type Token struct {
	Text  string            `json:"text"`
	POS   string            `json:"pos"`
	Dep   string            `json:"dep"`
	Lemma string            `json:"lemma"`
	Morph map[string]string `json:"morph"`

	// Case duplicates the `Case` feature from Morph. It is always
	// serialized - as null in case the token has no case marking.
	Case *string `json:"case"`
} // @name Token

// NewToken creates a token and fills in the Case convenience field.
// A nil morph is replaced by an empty map so the JSON output is
// always an object.
func NewToken(text, pos, dep, lemma string, morph map[string]string) Token {
	if morph == nil {
		morph = make(map[string]string)
	}
	ans := Token{
		Text:  text,
		POS:   pos,
		Dep:   dep,
		Lemma: lemma,
		Morph: morph,
	}
	if v, ok := morph[FeatCase]; ok && v != "" {
		ans.Case = &v
	}
	return ans
}

// TokenList is an ordered sequence of tokens as produced
// by a pipeline.
type TokenList []Token

// AlwaysAsList returns an empty list in case the original
// value is nil.
func (tl TokenList) AlwaysAsList() []Token {
	if tl != nil {
		return tl
	}
	return []Token{}
}
