package database

import (
	"context"
	"testing"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/busline/gateway/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"WARN", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"garbage", gormlogger.Info},
		{"", gormlogger.Info},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQueryLoggerLogMode(t *testing.T) {
	base := newQueryLogger(logger.NewDefault("test"), time.Second, gormlogger.Warn)

	changed := base.LogMode(gormlogger.Silent)
	if changed.(*queryLogger).level != gormlogger.Silent {
		t.Error("LogMode must apply the new level")
	}
	if base.(*queryLogger).level != gormlogger.Warn {
		t.Error("LogMode must not mutate the original logger")
	}

	// A silent logger's Trace must not call fc; GORM relies on that to
	// skip SQL formatting entirely.
	called := false
	changed.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, nil)
	if called {
		t.Error("silent Trace must not evaluate the statement callback")
	}
}
