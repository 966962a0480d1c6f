package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/larderhq/larder-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug level", level: "debug", wantDebug: true, wantInfo: true},
		{name: "info level", level: "info", wantDebug: false, wantInfo: true},
		{name: "warn level", level: "warn", wantDebug: false, wantInfo: false},
		{name: "error level", level: "ERROR", wantDebug: false, wantInfo: false},
		{name: "invalid level falls back to info", level: "loud", wantDebug: false, wantInfo: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.level})
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.Equal(t, tc.wantDebug, logger.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tc.wantInfo, logger.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}
