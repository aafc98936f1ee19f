package resource

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/go-botarena/pkg/config"
)

func testConfig() *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		MaxMemoryMB:     10000,
		MaxGoroutines:   4,
		ShutdownTimeout: 2 * time.Second,
		CheckInterval:   50 * time.Millisecond,
	}
}

func TestManager_StartGoroutineTracksCount(t *testing.T) {
	m := NewManager(testConfig())

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	err := m.StartGoroutine(context.Background(), "worker", func(context.Context) {
		wg.Done()
		<-release
	})
	if err != nil {
		t.Fatalf("StartGoroutine: %v", err)
	}

	wg.Wait()
	if got := m.GoroutineCount(); got != 1 {
		t.Errorf("goroutine count = %d, want 1", got)
	}

	close(release)
	waitForCount(t, m, 0)
}

func TestManager_GoroutineLimitEnforced(t *testing.T) {
	m := NewManager(testConfig())

	release := make(chan struct{})
	defer close(release)
	for i := 0; i < 4; i++ {
		err := m.StartGoroutine(context.Background(), "worker", func(context.Context) {
			<-release
		})
		if err != nil {
			t.Fatalf("StartGoroutine %d: %v", i, err)
		}
	}

	err := m.StartGoroutine(context.Background(), "excess", func(context.Context) {})
	if err == nil {
		t.Error("StartGoroutine over the limit succeeded, want error")
	}
}

func TestManager_GoroutinePanicAbsorbed(t *testing.T) {
	m := NewManager(testConfig())

	err := m.StartGoroutine(context.Background(), "panicky", func(context.Context) {
		panic("worker bug")
	})
	if err != nil {
		t.Fatalf("StartGoroutine: %v", err)
	}

	waitForCount(t, m, 0)
}

func TestManager_CheckMemoryUsage(t *testing.T) {
	m := NewManager(testConfig())
	if err := m.CheckMemoryUsage(); err != nil {
		t.Errorf("CheckMemoryUsage under a 10GB limit failed: %v", err)
	}
	if m.MemoryUsageMB() < 0 {
		t.Errorf("memory usage = %d, want non-negative", m.MemoryUsageMB())
	}
}

func TestManager_StartAndShutdown(t *testing.T) {
	m := NewManager(testConfig())
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(); err == nil {
		t.Error("second Start succeeded, want error")
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	// Idempotent.
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestManager_ShutdownTimesOutOnStuckGoroutine(t *testing.T) {
	cfg := testConfig()
	cfg.ShutdownTimeout = 100 * time.Millisecond
	m := NewManager(cfg)
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	release := make(chan struct{})
	defer close(release)
	if err := m.StartGoroutine(context.Background(), "stuck", func(context.Context) {
		<-release
	}); err != nil {
		t.Fatalf("StartGoroutine: %v", err)
	}

	if err := m.Shutdown(context.Background()); err == nil {
		t.Error("Shutdown with a stuck goroutine succeeded, want timeout error")
	}
}

func waitForCount(t *testing.T, m *Manager, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.GoroutineCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("goroutine count = %d, want %d", m.GoroutineCount(), want)
}
