package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter(t *testing.T) {
	t.Run("maps levels", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		adapter := messaging.NewZapLoggerAdapter(zap.New(core))

		adapter.Error("failed", errors.New("boom"), nil)
		adapter.Info("info", nil)
		adapter.Debug("debug", nil)
		adapter.Trace("trace", nil)

		entries := logs.AllUntimed()
		require.Len(t, entries, 4)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "boom", entries[0].ContextMap()["error"])
		assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	})

	t.Run("carries fields", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		adapter := messaging.NewZapLoggerAdapter(zap.New(core)).
			With(watermill.LogFields{"stream": "url.lifecycle"})

		adapter.Info("subscribed", watermill.LogFields{"consumer": "audit"})

		fields := logs.AllUntimed()[0].ContextMap()
		assert.Equal(t, "url.lifecycle", fields["stream"])
		assert.Equal(t, "audit", fields["consumer"])
	})
}
