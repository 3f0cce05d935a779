// Package logging provides the structured zap logger used across the
// application: console plus rotating file output, with sensitive values
// (API keys, store tokens) redacted before they reach either sink.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates the application logger.
//
// Development mode uses colored human-readable console output at debug
// level; production uses JSON at info level. Both modes tee to a rotating
// log file (JSON). logFilePath empty disables the file sink.
func NewLogger(isDevelopment bool, logFilePath string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if isDevelopment {
		level = zapcore.DebugLevel
	}

	core := newTeeCore(level, logFilePath, isDevelopment)
	return zap.New(redactingCore{core}, zap.AddCaller()), nil
}

// newTeeCore builds the console core, plus a JSON file core when a path is
// configured.
func newTeeCore(level zapcore.Level, filePath string, isDev bool) zapcore.Core {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	if filePath == "" {
		return consoleCore
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		newFileWriter(filePath),
		level,
	)
	return zapcore.NewTee(consoleCore, fileCore)
}

// redactingCore wraps a core and redacts sensitive data in every string
// field and message before encoding.
type redactingCore struct {
	zapcore.Core
}

func (c redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return redactingCore{c.Core.With(redactFields(fields))}
}

func (c redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Message = RedactSensitiveData(entry.Message)
	return c.Core.Write(entry, redactFields(fields))
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.StringType {
			f.String = RedactFieldValue(f.Key, f.String)
		}
		out[i] = f
	}
	return out
}
