package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evdnx/gorsi/logger"
	"github.com/evdnx/gorsi/testutils"
)

func TestMockLogger(t *testing.T) {
	l := testutils.NewMockLogger()
	l.Info("hello", logger.String("k", "v"))
	if got := l.LastMessage(); got != "hello" {
		t.Fatalf("expected last message 'hello', got %q", got)
	}
	f, ok := l.Entries()[0].Field("k")
	if !ok || f.String != "v" {
		t.Fatalf("expected field k=v, got %+v", f)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := logger.New(logger.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gorsi.log")
	l, err := logger.New(logger.Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("rsi_decision", logger.Float64("rsi", 25))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"rsi_decision"`) {
		t.Fatalf("log file missing entry: %s", raw)
	}
}
