package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Medium: 3 * time.Second})

	got := timeouts.Current()
	if got.Medium != 3*time.Second {
		t.Errorf("Medium = %v, want 3s", got.Medium)
	}
	if got.Short != timeouts.DefaultShort {
		t.Errorf("Short = %v, want default %v", got.Short, timeouts.DefaultShort)
	}
	if got.Ping != timeouts.DefaultPing {
		t.Errorf("Ping = %v, want default %v", got.Ping, timeouts.DefaultPing)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Second, Short: time.Second, Medium: time.Second})
	timeouts.Reset()

	if timeouts.Ping() != timeouts.DefaultPing || timeouts.Short() != timeouts.DefaultShort || timeouts.Medium() != timeouts.DefaultMedium {
		t.Errorf("Reset did not restore defaults: %+v", timeouts.Current())
	}
}

func TestWithTimeout_LogsDeadlineExceeded(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, log, "slow read")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.ContextMap()["operation"] != "slow read" {
		t.Errorf("operation field = %v", entry.ContextMap()["operation"])
	}
}

func TestWithTimeout_NoLogOnNormalCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	_, cancel := timeouts.WithTimeout(context.Background(), time.Minute, log, "fast read")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}
