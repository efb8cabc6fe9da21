package logger_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"class-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name   string
		cfg    logger.Config
		level  zapcore.Level
		wantOn bool
	}{
		{"debug console", logger.Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, true},
		{"info json", logger.Config{Level: "info", Format: "json"}, zapcore.DebugLevel, false},
		{"warn drops info", logger.Config{Level: "warn"}, zapcore.InfoLevel, false},
		{"unknown level defaults to info", logger.Config{Level: "loud"}, zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOn, l.Core().Enabled(tt.level))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		logger.WithRayID(base, c).Info("with id")
		return c.SendString("ok")
	})
	app.Get("/bare", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("without id")
		return c.SendString("ok")
	})

	for _, path := range []string{"/", "/bare"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ray-123", entries[0].ContextMap()["ray_id"])
	assert.NotContains(t, entries[1].ContextMap(), "ray_id")
}
