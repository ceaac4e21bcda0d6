package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{in: "debug", want: levelPtr(zapcore.DebugLevel)},
		{in: "info", want: levelPtr(zapcore.InfoLevel)},
		{in: "warn", want: levelPtr(zapcore.WarnLevel)},
		{in: "error", want: levelPtr(zapcore.ErrorLevel)},
		{in: "fatal", want: nil},
		{in: "loud", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
