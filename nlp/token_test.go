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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenCase(t *testing.T) {
	tk := NewToken("Namen", "NOUN", "obj", "Name", map[string]string{"Case": "Acc", "Number": "Plur"})
	require.NotNil(t, tk.Case)
	assert.Equal(t, "Acc", *tk.Case)
}

func TestNewTokenNilMorph(t *testing.T) {
	tk := NewToken(".", "PUNCT", "punct", ".", nil)
	assert.NotNil(t, tk.Morph)
	assert.Nil(t, tk.Case)
}

func TestTokenJSONKeepsNullCase(t *testing.T) {
	data, err := json.Marshal(NewToken(".", "PUNCT", "punct", ".", nil))
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"text": ".", "pos": "PUNCT", "dep": "punct", "lemma": ".", "morph": {}, "case": null}`,
		string(data),
	)
}

func TestTokenListAlwaysAsList(t *testing.T) {
	var tl TokenList
	assert.NotNil(t, tl.AlwaysAsList())
	assert.Len(t, tl.AlwaysAsList(), 0)
}

func TestTokenJSONCaseIsString(t *testing.T) {
	data, err := json.Marshal(NewToken("Namen", "NOUN", "obj", "Name", map[string]string{"Case": "Acc"}))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Acc", raw["case"])
}
