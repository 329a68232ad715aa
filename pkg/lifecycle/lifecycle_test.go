package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for _, name := range []string{"database", "quarantine", "vault"} {
		lc.OnStartup(name, func() error {
			count.Add(1)
			return nil
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("should be ready after successful startup")
	}
}

func TestFailedStartupHookBlocksReadiness(t *testing.T) {
	lc := lifecycle.New()

	lc.OnStartup("database", func() error { return nil })
	lc.OnStartup("vault", func() error { return errors.New("bucket missing") })

	lc.WaitForStartup()

	if lc.Ready() {
		t.Error("should not be ready when a startup hook failed")
	}

	failures := lc.Failures()
	if len(failures) != 1 {
		t.Fatalf("failures: got %d, want 1", len(failures))
	}
	if _, ok := failures["vault"]; !ok {
		t.Errorf("failures: missing vault entry, got %v", failures)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Context().Err(); err != nil {
		t.Fatalf("context cancelled early: %v", err)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if lc.Context().Err() == nil {
		t.Error("context should be cancelled after shutdown")
	}
}
