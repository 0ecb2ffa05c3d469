package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	Debug("d")
	Info("i", zap.String("k", "v"))
	Warn("w")
	Error("e")

	if logs.Len() != 4 {
		t.Fatalf("entries = %d, want 4", logs.Len())
	}
	if got := logs.FilterMessage("i").All()[0].ContextMap()["k"]; got != "v" {
		t.Errorf("field k = %v", got)
	}
}

func TestInitLevels(t *testing.T) {
	defer Set(zap.NewNop())

	if err := Init("warn"); err != nil {
		t.Fatal(err)
	}
	if L().Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}

	// 无法解析的级别回退到info
	if err := Init("loud"); err != nil {
		t.Fatal(err)
	}
	if !L().Core().Enabled(zap.InfoLevel) || L().Core().Enabled(zap.DebugLevel) {
		t.Error("unknown level should fall back to info")
	}
}
