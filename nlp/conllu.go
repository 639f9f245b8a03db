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
	"fmt"
	"strconv"
	"strings"
)

const (
	conlluNumColumns = 10
	conlluEmptyValue = "_"

	colID     = 0
	colForm   = 1
	colLemma  = 2
	colUPOS   = 3
	colFeats  = 5
	colHead   = 6
	colDeprel = 7
)

func conlluValue(v string) string {
	if v == conlluEmptyValue {
		return ""
	}
	return v
}

// ParseFeats decodes a CoNLL-U FEATS column (e.g. `Case=Nom|Number=Sing`)
// into a map. The `_` value produces an empty map.
func ParseFeats(src string) (map[string]string, error) {
	ans := make(map[string]string)
	if src == conlluEmptyValue || src == "" {
		return ans, nil
	}
	for _, item := range strings.Split(src, "|") {
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid feature `%s`", item)
		}
		ans[k] = v
	}
	return ans, nil
}

type conlluWord struct {
	id    int
	head  int
	form  string
	lemma string
	upos  string
	dep   string
	feats map[string]string
}

func (w conlluWord) toToken() Token {
	return NewToken(w.form, w.upos, w.dep, w.lemma, w.feats)
}

// multiwordToken is a surface token spanning more syntactic words
// (e.g. `zum` = `zu` + `dem`).
type multiwordToken struct {
	form  string
	from  int
	to    int
	words []conlluWord
}

func (mwt *multiwordToken) covers(id int) bool {
	return id >= mwt.from && id <= mwt.to
}

// toToken produces a single token with the surface form of the range.
// The annotation is taken from the word attached outside of the range,
// the features of the other words fill in what the head word lacks.
func (mwt *multiwordToken) toToken() Token {
	if len(mwt.words) == 0 {
		return NewToken(mwt.form, "", "", "", nil)
	}
	head := mwt.words[0]
	for _, w := range mwt.words {
		if !mwt.covers(w.head) {
			head = w
			break
		}
	}
	feats := make(map[string]string)
	for k, v := range head.feats {
		feats[k] = v
	}
	for _, w := range mwt.words {
		for k, v := range w.feats {
			if _, ok := feats[k]; !ok {
				feats[k] = v
			}
		}
	}
	return NewToken(mwt.form, head.upos, head.dep, head.lemma, feats)
}

func parseRange(id string) (int, int, error) {
	a, b, _ := strings.Cut(id, "-")
	from, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid token range `%s`", id)
	}
	to, err := strconv.Atoi(b)
	if err != nil || to < from {
		return 0, 0, fmt.Errorf("invalid token range `%s`", id)
	}
	return from, to, nil
}

func parseWord(cols []string) (conlluWord, error) {
	id, err := strconv.Atoi(cols[colID])
	if err != nil {
		return conlluWord{}, fmt.Errorf("invalid word ID `%s`", cols[colID])
	}
	feats, err := ParseFeats(cols[colFeats])
	if err != nil {
		return conlluWord{}, err
	}
	// HEAD may be `_` in unparsed input
	head, _ := strconv.Atoi(cols[colHead])
	return conlluWord{
		id:    id,
		head:  head,
		form:  cols[colForm],
		lemma: conlluValue(cols[colLemma]),
		upos:  conlluValue(cols[colUPOS]),
		dep:   conlluValue(cols[colDeprel]),
		feats: feats,
	}, nil
}

// ParseCoNLLU converts a CoNLL-U document into a list of surface tokens
// in the order of the source text. Multi-word tokens (`3-4`) are returned
// as one token carrying the range's form, empty nodes (`5.1`) are skipped.
func ParseCoNLLU(src string) (TokenList, error) {
	ans := make(TokenList, 0, 20)
	var mwt *multiwordToken
	flush := func() {
		if mwt != nil {
			ans = append(ans, mwt.toToken())
			mwt = nil
		}
	}
	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != conlluNumColumns {
			return nil, fmt.Errorf(
				"invalid CoNLL-U line %d: expected %d columns, found %d",
				i+1, conlluNumColumns, len(cols))
		}
		id := cols[colID]
		if strings.Contains(id, ".") {
			continue
		}
		if strings.Contains(id, "-") {
			flush()
			from, to, err := parseRange(id)
			if err != nil {
				return nil, fmt.Errorf("invalid CoNLL-U line %d: %w", i+1, err)
			}
			mwt = &multiwordToken{form: cols[colForm], from: from, to: to}
			continue
		}
		word, err := parseWord(cols)
		if err != nil {
			return nil, fmt.Errorf("invalid CoNLL-U line %d: %w", i+1, err)
		}
		if mwt != nil && mwt.covers(word.id) {
			mwt.words = append(mwt.words, word)
			if word.id == mwt.to {
				flush()
			}
			continue
		}
		flush()
		ans = append(ans, word.toToken())
	}
	flush()
	return ans, nil
}
