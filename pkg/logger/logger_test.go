package logger

import (
	"os"
	"path/filepath"
	"testing"

	"gradebook_backend/internal/config"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{name: "debug mode", mode: "debug", want: zap.DebugLevel},
		{name: "release mode", mode: "release", want: zap.InfoLevel},
		{name: "explicit level wins", mode: "debug", level: "warn", want: zap.WarnLevel},
		{name: "invalid level falls back", mode: "release", level: "loud", want: zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
			assert.Equal(t, tt.want, Level(cfg))
		})
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gradebook.log")
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Store:  config.StoreConfig{Driver: "memory"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	}

	log := New(cfg)
	log.Debug("dropped")
	log.Info("Course grades aggregated", zap.String("courseId", "c1"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Course grades aggregated", entry["msg"])
	assert.Equal(t, "c1", entry["courseId"])
	assert.Equal(t, "memory", entry["store"])
	assert.Equal(t, "gradebook", entry["logger"])
}

func TestNewWithoutOutputs(t *testing.T) {
	log := New(&config.Config{})
	assert.NotNil(t, log)
	log.Info("nowhere")
}
