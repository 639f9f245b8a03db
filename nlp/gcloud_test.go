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
	"testing"

	"cloud.google.com/go/language/apiv1/languagepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertGCloudToken(t *testing.T) {
	tk := convertGCloudToken(&languagepb.Token{
		Text:  &languagepb.TextSpan{Content: "Name"},
		Lemma: "Name",
		PartOfSpeech: &languagepb.PartOfSpeech{
			Tag:    languagepb.PartOfSpeech_NOUN,
			Case:   languagepb.PartOfSpeech_NOMINATIVE,
			Number: languagepb.PartOfSpeech_SINGULAR,
			Gender: languagepb.PartOfSpeech_MASCULINE,
		},
		DependencyEdge: &languagepb.DependencyEdge{
			HeadTokenIndex: 2,
			Label:          languagepb.DependencyEdge_NSUBJ,
		},
	})
	assert.Equal(t, "Name", tk.Text)
	assert.Equal(t, "NOUN", tk.POS)
	assert.Equal(t, "nsubj", tk.Dep)
	assert.Equal(t, "Name", tk.Lemma)
	assert.Equal(t, map[string]string{"Case": "Nom", "Number": "Sing", "Gender": "Masc"}, tk.Morph)
	require.NotNil(t, tk.Case)
	assert.Equal(t, "Nom", *tk.Case)
}

func TestConvertGCloudTokenPunct(t *testing.T) {
	tk := convertGCloudToken(&languagepb.Token{
		Text:  &languagepb.TextSpan{Content: "."},
		Lemma: ".",
		PartOfSpeech: &languagepb.PartOfSpeech{
			Tag: languagepb.PartOfSpeech_PUNCT,
		},
		DependencyEdge: &languagepb.DependencyEdge{
			Label: languagepb.DependencyEdge_P,
		},
	})
	assert.Equal(t, "PUNCT", tk.POS)
	assert.Equal(t, "punct", tk.Dep)
	assert.Empty(t, tk.Morph)
	assert.Nil(t, tk.Case)
}

func TestConvertGCloudTokenRenamedTag(t *testing.T) {
	tk := convertGCloudToken(&languagepb.Token{
		Text:         &languagepb.TextSpan{Content: "und"},
		PartOfSpeech: &languagepb.PartOfSpeech{Tag: languagepb.PartOfSpeech_CONJ},
		DependencyEdge: &languagepb.DependencyEdge{
			Label: languagepb.DependencyEdge_CC,
		},
	})
	assert.Equal(t, "CCONJ", tk.POS)
	assert.Equal(t, "cc", tk.Dep)
}

func TestGCloudProcessWithoutLoad(t *testing.T) {
	g := NewGCloud(&GCloudConf{Language: "de"})
	_, err := g.Process(context.Background(), "Hallo")
	assert.Error(t, err)
	assert.NoError(t, g.Close())
}
