// Package logging builds the zap loggers used across easy-npm-publish.
//
// Logs go to stderr through a console encoder. When running inside GitHub
// Actions, warnings and errors are additionally emitted as workflow
// commands (::warning::, ::error::) so they surface as run annotations.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a logger.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool
	// Writer receives log output (default: os.Stderr).
	Writer io.Writer
	// Color enables colored level names.
	Color bool
	// Annotations enables GitHub Actions workflow command output for warnings and errors.
	Annotations bool
}

// DebugFromEnv reports whether the runner requested debug logging.
func DebugFromEnv() bool {
	return os.Getenv("RUNNER_DEBUG") == "1"
}

// InGitHubActions reports whether the process runs inside GitHub Actions.
func InGitHubActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// New creates a logger from opts.
func New(opts Options) *zap.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	sink := zapcore.AddSync(w)
	var core zapcore.Core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	if opts.Annotations {
		core = newAnnotationCore(core, sink)
	}

	return zap.New(core)
}

// Sugared returns a printf-style function for packages that take a debug hook.
func Sugared(logger *zap.Logger) func(format string, args ...any) {
	sugar := logger.Sugar()
	return func(format string, args ...any) {
		sugar.Debugf(format, args...)
	}
}
