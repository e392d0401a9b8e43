package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/uav-store/backend/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "WARN", Format: "json"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus", Format: "console", Development: true})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(config.LoggerConfig{Format: "xml"})
	require.Error(t, err)
}
