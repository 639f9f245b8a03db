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
	"fmt"
)

// Pipeline is a (blocking) NLP model able to turn a text
// into a list of annotated tokens.
type Pipeline interface {

	// Load makes sure the model is available. It is called once
	// on startup and its failure should prevent the process from
	// accepting any traffic.
	Load(ctx context.Context) error

	// Process runs the model over the text. The returned tokens
	// follow the order produced by the model.
	Process(ctx context.Context, text string) (TokenList, error)

	Close() error

	// Name identifies the engine (and model if applicable)
	Name() string
}

func NewPipeline(conf *Conf) (Pipeline, error) {
	switch conf.Engine {
	case EngineUDPipe:
		return NewUDPipe(conf.UDPipe), nil
	case EngineGCloud:
		return NewGCloud(conf.GCloud), nil
	default:
		return nil, fmt.Errorf("unknown analysis engine %s", conf.Engine)
	}
}
