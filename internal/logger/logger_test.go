package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/leandrodaf/midiin/sdk/contracts"
)

func TestToZapLevel(t *testing.T) {
	tests := []struct {
		in   contracts.LogLevel
		want zapcore.Level
	}{
		{contracts.DebugLevel, zapcore.DebugLevel},
		{contracts.InfoLevel, zapcore.InfoLevel},
		{contracts.WarnLevel, zapcore.WarnLevel},
		{contracts.ErrorLevel, zapcore.ErrorLevel},
		{contracts.LogLevel(0), zapcore.InfoLevel}, // unset falls back to info
	}
	for _, tt := range tests {
		if got := toZapLevel(tt.in); got != tt.want {
			t.Errorf("toZapLevel(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFieldBuilder(t *testing.T) {
	log := NewZapLogger()

	f, ok := log.Field().String("device", "Keyboard A").(zapField)
	if !ok {
		t.Fatal("Field() did not produce a zapField")
	}
	if f.field.Key != "device" {
		t.Errorf("field key = %q, want device", f.field.Key)
	}

	e, ok := log.Field().Error("error", errors.New("boom")).(zapField)
	if !ok {
		t.Fatal("Error field is not a zapField")
	}
	if e.field.Key != "error" {
		t.Errorf("error field key = %q, want error", e.field.Key)
	}
}

func TestUnwrapIgnoresForeignFields(t *testing.T) {
	fields := unwrap([]contracts.Field{nil, zapField{}})
	if len(fields) != 1 {
		t.Fatalf("unwrapped %d fields, want 1", len(fields))
	}
}
