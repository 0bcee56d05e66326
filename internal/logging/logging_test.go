package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "hexfrontlogs",
			want:    filepath.Join("hexfrontlogs", "hexfront-sim.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./hexfrontlogs",
			want:    filepath.Join(".", "hexfrontlogs", "hexfront-sim.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "hexfront"),
			want:    filepath.Join("/var", "log", "hexfront", "hexfront-sim.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "hexfront-sim", sessionStart))
		})
	}
}

func TestNewGraylogWriter(t *testing.T) {
	// UDP dialing succeeds without a listener.
	w, err := NewGraylogWriter("127.0.0.1:12201")
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

func TestNewGraylogWriter_BadAddress(t *testing.T) {
	_, err := NewGraylogWriter("no-port")
	assert.Error(t, err)
}
