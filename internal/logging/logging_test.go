package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("json", "debug", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("op", "compare").Info("Method")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "compare", line["op"])
	assert.Equal(t, "Method", line["msg"])
}

func TestTextFormatWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", "", &buf)
	require.NoError(t, err)
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	log.WithField("type", "list").Warn("Error while invoking method")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "type=list")
	assert.NotContains(t, out, "\x1b[", "no colour codes off a terminal")
}

func TestRejectsUnknownSettings(t *testing.T) {
	_, err := New("xml", "info", nil)
	assert.Error(t, err)
	_, err = New("text", "loud", nil)
	assert.Error(t, err)
}
