package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConsoleLogger(t *testing.T) {
	log := ConsoleLogger(logrus.WarnLevel)
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level: got %v, want %v", log.GetLevel(), logrus.WarnLevel)
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("formatter: got %T, want *logrus.TextFormatter", log.Formatter)
	}
}

func TestFileLogger_CreatesLogDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	f, log, err := FileLogger(logrus.InfoLevel, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	log.Info("started")
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if st.Size() == 0 {
		t.Fatal("log file is empty")
	}
}
