package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_LevelFiltering(t *testing.T) {
	logger := New("warn", "")
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := New("loud", "")
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled after fallback to info")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled after fallback")
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsight.log")
	logger := New("info", path)

	logger.Info("hello")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestNewFile_WritesOnlyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsight.log")
	logger := NewFile("debug", path)

	logger.Debug("quiet")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
