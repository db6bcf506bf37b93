package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger used for a run. Output goes to stderr so
// stdout stays free for article-data lines and dry-run pages.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		lvl,
	))
	zap.RedirectStdLog(logger)
	return logger, nil
}

// runLogger tags every line of a run with a fresh run id and the issue number
func runLogger(logger *zap.Logger, issueNumber string) *zap.Logger {
	fields := []zap.Field{zap.String("run_id", uuid.NewString())}
	if issueNumber != "" {
		fields = append(fields, zap.String("issue", issueNumber))
	}
	return logger.With(fields...)
}
