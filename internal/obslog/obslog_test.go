package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	log := New(Config{Level: "not-a-level", Format: "text"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestNewParsesExplicitLevelAndJSONFormat(t *testing.T) {
	log := New(Config{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, isJSON := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestNewStdoutOutputIsDefault(t *testing.T) {
	log := New(Config{Level: "info", Output: "stdout"})
	assert.Equal(t, os.Stdout, log.Out)
}

func TestNewAppendsToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trustee.log")
	log := New(Config{Level: "info", Output: path})
	assert.NotEqual(t, os.Stdout, log.Out, "a file output must tee away from plain stdout")

	log.Info("first line")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "first line")
}

func TestNewFallsBackToStdoutOnUnopenableFile(t *testing.T) {
	log := New(Config{Level: "info", Output: filepath.Join(t.TempDir(), "no", "such", "dir", "x.log")})
	assert.Equal(t, os.Stdout, log.Out)
}
