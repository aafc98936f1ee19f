// Package resource tracks the goroutine and memory footprint of an
// arena process. Every actor goroutine runs through the manager, which
// enforces a ceiling so a match with runaway scripts cannot exhaust
// the host.
package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/logging"
)

// Manager enforces process resource limits and supports graceful
// shutdown of tracked goroutines.
type Manager struct {
	maxMemoryMB     int64
	maxGoroutines   int64
	shutdownTimeout time.Duration
	checkInterval   time.Duration

	goroutineCount atomic.Int64
	memoryUsageMB  atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger
}

// NewManager creates a resource manager from the runtime configuration.
func NewManager(envConfig *config.EnvironmentConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		maxMemoryMB:     envConfig.MaxMemoryMB,
		maxGoroutines:   int64(envConfig.MaxGoroutines),
		shutdownTimeout: envConfig.ShutdownTimeout,
		checkInterval:   envConfig.CheckInterval,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logging.NewLogger(),
	}
}

// Start begins the periodic monitoring loop.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("resource manager already running")
	}
	m.running = true
	m.mu.Unlock()

	go m.monitoringLoop()

	m.logger.Info(m.ctx, "resource manager started",
		"max_memory_mb", m.maxMemoryMB,
		"max_goroutines", m.maxGoroutines,
		"check_interval", m.checkInterval,
	)
	return nil
}

// StartGoroutine launches fn on a tracked goroutine, refusing when the
// goroutine ceiling is reached. A panic in fn is logged and absorbed.
func (m *Manager) StartGoroutine(ctx context.Context, name string, fn func(context.Context)) error {
	current := m.goroutineCount.Load()
	if current >= m.maxGoroutines {
		m.logger.Warn(ctx, "goroutine limit reached",
			"current", current,
			"limit", m.maxGoroutines,
			"name", name,
		)
		return fmt.Errorf("goroutine limit reached: %d/%d", current, m.maxGoroutines)
	}

	m.goroutineCount.Add(1)
	go func() {
		defer m.goroutineCount.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error(ctx, "tracked goroutine panicked",
					fmt.Errorf("panic: %v", r), "name", name)
			}
		}()
		fn(ctx)
	}()
	return nil
}

// CheckMemoryUsage samples heap usage and errors past the limit.
func (m *Manager) CheckMemoryUsage() error {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	currentMB := int64(stats.Alloc / 1024 / 1024)
	m.memoryUsageMB.Store(currentMB)

	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// GoroutineCount returns the number of tracked goroutines.
func (m *Manager) GoroutineCount() int64 {
	return m.goroutineCount.Load()
}

// MemoryUsageMB returns the last sampled heap usage in MB.
func (m *Manager) MemoryUsageMB() int64 {
	return m.memoryUsageMB.Load()
}

// Shutdown stops monitoring and waits for tracked goroutines to finish,
// bounded by the configured shutdown timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info(ctx, "shutting down resource manager")
	m.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	select {
	case <-m.done:
	case <-shutdownCtx.Done():
		m.logger.Warn(ctx, "monitoring loop did not stop before the deadline")
	}

	return m.waitForGoroutines(shutdownCtx)
}

// waitForGoroutines blocks until every tracked goroutine exits or the
// context expires.
func (m *Manager) waitForGoroutines(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		count := m.GoroutineCount()
		if count == 0 {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			remaining := m.GoroutineCount()
			return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
		}
	}
}

// monitoringLoop runs periodic resource checks until Shutdown.
func (m *Manager) monitoringLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.CheckMemoryUsage(); err != nil {
				m.logger.Error(m.ctx, "memory limit exceeded", err)
			}
			m.logger.Debug(m.ctx, "resource usage",
				"goroutines", m.GoroutineCount(),
				"memory_mb", m.MemoryUsageMB(),
			)
		case <-m.ctx.Done():
			return
		}
	}
}
