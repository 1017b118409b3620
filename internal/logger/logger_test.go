package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
}

func TestLogger_WritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, Console: true, Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.WithFields(F("profile", "p1")).Info("goal added", F("goal", "g1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "goal added | profile=p1 goal=g1")
}

func TestLogger_RotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: DEBUG, FilePath: path, MaxSize: 64, MaxBackups: 2})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	for i := 0; i < 5; i++ {
		l.Info("a reasonably long message to force rotation", F("i", i))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		l.WithFields(F("k", "v")).Warn("still nothing")
		_ = l.Close()
	})
}
