package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(WARN, &buf)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(ERROR, &buf)

	log.Info("hidden")
	log.SetLevel(DEBUG)
	log.Debug("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestOffSilencesEverything(t *testing.T) {
	var buf bytes.Buffer
	log := New(OFF, &buf)

	log.Error("never shown")
	assert.Empty(t, buf.String())
}

func TestDefaultSwap(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(New(INFO, &buf))
	Default().Info("through default")
	assert.Contains(t, buf.String(), "through default")
}
