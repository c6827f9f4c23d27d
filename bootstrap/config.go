package bootstrap

import (
	"fmt"
	"os"

	"chirp/config"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger with colored console output. The
// returned atomic level starts at info and is adjusted once the
// configuration has been read.
func InitLogger() (*zap.Logger, *zap.SugaredLogger, zap.AtomicLevel) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Colored levels
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder        // Readable timestamps
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder      // Short file paths

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stderr),
		level,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), level
}

// InitConfig loads the application configuration and applies the configured
// log level.
func InitConfig(configFile string, sugar *zap.SugaredLogger, level zap.AtomicLevel) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load config: %v\n", err)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if viper.ConfigFileUsed() == "" {
		sugar.Info("No config file found, using defaults and env vars")
	}

	if parsed, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		level.SetLevel(parsed)
	}

	sugar.Infow("Data paths configuration",
		"data_dir", cfg.GetDataDir(),
		"snapshot_path", cfg.GetSnapshotPath())

	return cfg, nil
}

// EnsureDataDirectories creates the data directory if it does not exist.
func EnsureDataDirectories(cfg *config.Config, sugar *zap.SugaredLogger) error {
	dir := cfg.GetDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}
	sugar.Debugw("data directory ready", "path", dir)
	return nil
}
