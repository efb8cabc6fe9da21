package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RayIDKey is the fiber locals key and log field for the request id.
const RayIDKey = "ray_id"

// New builds a logger for cfg. A nil cfg uses the defaults.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &Config{Level: "info", Format: "json"}
	}
	return buildConfig(cfg).Build()
}

func buildConfig(cfg *Config) zap.Config {
	zc := zap.NewProductionConfig()
	switch lvl, err := zapcore.ParseLevel(cfg.Level); {
	case cfg.Level == "debug":
		zc = zap.NewDevelopmentConfig()
	case err == nil:
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	zc.Encoding = "json"
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}

	enc := &zc.EncoderConfig
	enc.LevelKey, enc.TimeKey, enc.MessageKey = "level", "time", "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc
}

// WithRayID returns l with the request's ray id attached, or l unchanged when
// the request has none.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals(RayIDKey).(string); ok && id != "" {
		return l.With(zap.String(RayIDKey, id))
	}
	return l
}
