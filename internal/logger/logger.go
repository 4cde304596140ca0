package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until Init is called.
var Log = zap.NewNop().Sugar()

// Init replaces Log. Entries go to stderr, or to logPath (truncated) when set;
// stdout carries command output only.
func Init(verbose bool, logPath string) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	writer := zapcore.Lock(os.Stderr)
	color := true
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writer = zapcore.AddSync(f)
		color = false
	}

	Log = zap.New(zapcore.NewCore(newEncoder(color), writer, level)).Sugar()
	return nil
}

func newEncoder(color bool) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
