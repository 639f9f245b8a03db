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

package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"glosa/nlp"
	"glosa/rdb"
	"glosa/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "conf.json", `{
		"listenAddress": "0.0.0.0",
		"listenPort": 8080,
		"analysis": {
			"engine": "udpipe",
			"numWorkers": 2,
			"udpipe": {"url": "http://udpipe:8001", "model": "german-hdt"}
		},
		"translator": {"url": "http://libretranslate:5000/translate"}
	}`)
	conf := LoadConfig(path)
	assert.Equal(t, "0.0.0.0", conf.ListenAddress)
	assert.Equal(t, 8080, conf.ListenPort)
	assert.Equal(t, "german-hdt", conf.Analysis.UDPipe.Model)
	assert.Equal(t, path, conf.GetSourcePath())
}

func TestValidateAndDefaults(t *testing.T) {
	conf := &Conf{}
	require.NoError(t, ValidateAndDefaults(conf))
	assert.Equal(t, dfltListenAddress, conf.ListenAddress)
	assert.Equal(t, dfltListenPort, conf.ListenPort)
	assert.Equal(t, "http://localhost:8000", conf.PublicURL)
	assert.Equal(t, nlp.EngineUDPipe, conf.Analysis.Engine)
	assert.Equal(t, nlp.ExecutorLocal, conf.Analysis.Executor)
	assert.Equal(t, translation.DefaultURL, conf.Translator.URL)
	assert.Equal(t, 0, conf.Translator.RequestTimeoutSecs)
	assert.Nil(t, conf.Redis)
	assert.NotNil(t, conf.Monitoring)
	assert.NotNil(t, conf.TimezoneLocation())
}

func TestValidateAndDefaultsRedis(t *testing.T) {
	conf := &Conf{Analysis: &nlp.Conf{Executor: nlp.ExecutorRedis}}
	require.NoError(t, ValidateAndDefaults(conf))
	require.NotNil(t, conf.Redis)
	assert.Equal(t, rdb.DefaultQueueKey, conf.Redis.QueueKey)
}

func TestValidateAndDefaultsInvalid(t *testing.T) {
	assert.Error(t, ValidateAndDefaults(&Conf{TimeZone: "Mars/Olympus_Mons"}))
	assert.Error(t, ValidateAndDefaults(&Conf{Analysis: &nlp.Conf{Engine: "spacy"}}))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GLOSA_LISTEN_PORT", "9000")
	t.Setenv("GLOSA_TRANSLATOR_URL", "http://translator:5000/translate")
	t.Setenv("GLOSA_UDPIPE_MODEL", "german-hdt")
	t.Setenv("GLOSA_REDIS_HOST", "redis")
	conf := &Conf{ListenPort: 8000}
	require.NoError(t, ApplyEnvOverrides(conf))
	assert.Equal(t, 9000, conf.ListenPort)
	assert.Equal(t, "http://translator:5000/translate", conf.Translator.URL)
	assert.Equal(t, "german-hdt", conf.Analysis.UDPipe.Model)
	assert.Equal(t, "redis", conf.Redis.Host)
}

func TestApplyEnvOverridesInvalidNumber(t *testing.T) {
	t.Setenv("GLOSA_LISTEN_PORT", "eighty")
	assert.Error(t, ApplyEnvOverrides(&Conf{}))
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "GLOSA_TEST_DOTENV_VALUE=foo\n")
	t.Cleanup(func() { os.Unsetenv("GLOSA_TEST_DOTENV_VALUE") })
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "foo", os.Getenv("GLOSA_TEST_DOTENV_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
