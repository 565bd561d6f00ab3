package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()
	fn()
	return buf.String()
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger := NewLogger(LogLevelWarn).With("DatasetLoader")

	out := captureLog(t, func() {
		logger.Info("hidden")
		logger.Warn("subject %d has no wfreq", 3)
		logger.Error("load failed")
	})

	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [DatasetLoader] subject 3 has no wfreq")
	assert.Contains(t, out, "[ERROR] [DatasetLoader] load failed")
}
