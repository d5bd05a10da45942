// internal/logger/logger.go
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const fileFlushInterval = time.Second

// TUI is the logger set used while the terminal UI owns the screen: nothing is
// written to stdout or stderr.
type TUI struct {
	Logger *zap.Logger
	Ring   *Ring
	file   *SafeFileWriter
}

// NewTUI builds a logger that feeds the in-app log panel and, when filePath is not
// empty, a JSON log file.
func NewTUI(debug bool, filePath string, ringSize int) (*TUI, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}

	ring := NewRing(ringSize, zap.InfoLevel)
	cores := []zapcore.Core{ring}

	t := &TUI{Ring: ring}
	if filePath != "" {
		file, err := NewSafeFileWriter(filePath, fileFlushInterval, zap.NewNop())
		if err != nil {
			return nil, err
		}
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), file, level))
		t.file = file
	}

	t.Logger = zap.New(zapcore.NewTee(cores...))
	return t, nil
}

// Close flushes the log file, if any.
func (t *TUI) Close() error {
	_ = t.Logger.Sync()
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}
