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

package translation

import (
	"fmt"
)

// ConnectionError means the translation backend could not be reached
// at all (refused connection, DNS failure, broken transport etc.)
type ConnectionError struct {
	URL   string
	Cause error
}

func (err ConnectionError) Error() string {
	return fmt.Sprintf("translation service %s unreachable: %s", err.URL, err.Cause)
}

func (err ConnectionError) Unwrap() error {
	return err.Cause
}

// ----------------------------

// StatusError means the backend responded with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (err StatusError) Error() string {
	return fmt.Sprintf(
		"translation service %s responded with status %d: %s",
		err.URL, err.StatusCode, err.Body)
}

// ----------------------------

// MalformedResponseError means the backend answered with a body
// we were not able to understand (invalid JSON, missing `translatedText`).
type MalformedResponseError struct {
	Msg   string
	Cause error
}

func (err MalformedResponseError) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("malformed translation response: %s: %s", err.Msg, err.Cause)
	}
	return fmt.Sprintf("malformed translation response: %s", err.Msg)
}

func (err MalformedResponseError) Unwrap() error {
	return err.Cause
}
