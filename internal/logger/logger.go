package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

// ZapLogger implements contracts.Logger on top of Uber's zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger creates a production-encoded zap logger writing to stderr
// at InfoLevel.
func NewZapLogger() *ZapLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return &ZapLogger{
		logger: zap.New(core),
		level:  level,
	}
}

func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.logger.Debug(msg, unwrap(fields)...)
}

func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.logger.Info(msg, unwrap(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.logger.Warn(msg, unwrap(fields)...)
}

func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.logger.Error(msg, unwrap(fields)...)
}

// Field returns a new field builder.
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// SetLevel adjusts the minimum emitted level.
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func unwrap(fields []contracts.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if zf, ok := f.(zapField); ok {
			out = append(out, zf.field)
		}
	}
	return out
}

// zapField wraps one zap.Field behind the contracts.Field builder.
type zapField struct {
	field zap.Field
}

func (zapField) Bool(key string, val bool) contracts.Field {
	return zapField{zap.Bool(key, val)}
}

func (zapField) Int(key string, val int) contracts.Field {
	return zapField{zap.Int(key, val)}
}

func (zapField) String(key string, val string) contracts.Field {
	return zapField{zap.String(key, val)}
}

func (zapField) Time(key string, val time.Time) contracts.Field {
	return zapField{zap.Time(key, val)}
}

func (zapField) Error(key string, val error) contracts.Field {
	return zapField{zap.NamedError(key, val)}
}

func (zapField) Uint64(key string, val uint64) contracts.Field {
	return zapField{zap.Uint64(key, val)}
}

func (zapField) Uint8(key string, val uint8) contracts.Field {
	return zapField{zap.Uint8(key, val)}
}
