// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]Level{
		"DEBUG": LevelDebug,
		"info":  LevelInfo,
		"Warn":  LevelWarn,
		"ERROR": LevelError,
	} {
		level, err := ParseLevel(name)
		assert.NoError(t, err)
		assert.Equal(t, expected, level)
	}

	_, err := ParseLevel("TRACE")
	assert.Error(t, err)
}

func TestSimpleLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSimpleLoggerWithLevel(buf, LevelWarn)

	require.NoError(t, logger.Debug("debug message"))
	require.NoError(t, logger.Info("info message"))
	require.NoError(t, logger.Warn("warn message"))
	require.NoError(t, logger.Error("error message"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "WARN", first["level"])
	assert.Equal(t, "warn message", first["msg"])
}

func TestSimpleLoggerFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSimpleLogger(buf)

	require.NoError(t, logger.Info("Copied file", map[string]interface{}{
		"src": "a.txt",
		"dst": "a.txt",
	}))

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "Copied file", m["msg"])
	assert.Equal(t, "a.txt", m["src"])
	assert.Equal(t, "INFO", m["level"])
	assert.NotEmpty(t, m["ts"])
}
