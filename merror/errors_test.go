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

package merror

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicValueToErr(t *testing.T) {
	err := PanicValueToErr("index out of range")
	assert.ErrorAs(t, err, &RecoveredError{})
	assert.Equal(t, "recovered panic: index out of range", err.Error())

	err = PanicValueToErr(errors.New("nil map"))
	assert.Equal(t, "recovered panic: nil map", err.Error())

	err = PanicValueToErr(42)
	assert.Equal(t, "recovered panic from a value of type int", err.Error())
}

func TestErrorsMarshalJSON(t *testing.T) {
	data, err := json.Marshal(InputError{Msg: "missing text"})
	require.NoError(t, err)
	assert.Equal(t, `"missing text"`, string(data))

	data, err = json.Marshal(TimeoutError{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
