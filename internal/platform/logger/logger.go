package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ogurasousui/health-office-scheduler/internal/platform/config"
)

// New は設定に従って zap.Logger を初期化します。
// format が "console" の場合は開発向け設定、それ以外は JSON の本番向け設定を利用します。
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}

	return logger.With(zap.String("service", "station-scheduler")), nil
}
