package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": defaultZapLevel,
		"":        defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get("debug")
	b := Get("error")
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
}

func TestNop_Discards(t *testing.T) {
	l := Nop()
	if l == nil || l.SugaredLogger == nil {
		t.Fatalf("expected usable nop logger")
	}
	l.Infow("ignored", "k", "v")
}
