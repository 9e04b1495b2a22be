package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlexport/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	l.WithField("component", "export").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "export", entry["component"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	l := NewWithWriter(config.LogConfig{Level: "chatty", Format: "text"}, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	_, ok := l.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestNewWithWriter_AutoOffTerminal(t *testing.T) {
	l := NewWithWriter(config.LogConfig{Level: "info", Format: "auto"}, &bytes.Buffer{})

	_, ok := l.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
