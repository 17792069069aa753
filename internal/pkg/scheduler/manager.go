package scheduler

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thangnm/rentacc/internal/pkg/env"
	"github.com/thangnm/rentacc/internal/pkg/metrics/counter"
	"github.com/thangnm/rentacc/internal/pkg/rental"
)

// Manager runs the daily expiration sweep in the background. The engine's
// sweep is idempotent, so a missed or doubled tick converges on the same
// state; the design assumes one scheduler instance per deployment.
type Manager struct {
	engine      *rental.Engine
	sweepTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

var (
	globalManager *Manager
	managerMu     sync.Mutex
)

// NewManager creates a scheduler around the given engine.
func NewManager(engine *rental.Engine) *Manager {
	return &Manager{
		engine: engine,
		stopCh: make(chan struct{}),
	}
}

// GetManager returns the global scheduler instance, if initialized.
func GetManager() *Manager {
	managerMu.Lock()
	defer managerMu.Unlock()
	return globalManager
}

// InitializeManager installs the global scheduler instance.
func InitializeManager(engine *rental.Engine) *Manager {
	managerMu.Lock()
	defer managerMu.Unlock()
	globalManager = NewManager(engine)
	return globalManager
}

// Start launches the sweep loop. An immediate first pass runs on startup so
// a restarted deployment catches up without waiting a full interval.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	m.stopCh = make(chan struct{})
	m.running = true

	interval := time.Duration(env.GetEnvInt("RENTAL_SWEEP_INTERVAL_HOURS", 24)) * time.Hour
	m.sweepTicker = time.NewTicker(interval)

	log.Infof("[Scheduler] Starting expiration sweep every %s", interval)

	m.wg.Add(1)
	go m.sweepWorker()
}

// Stop halts the sweep loop and waits for an in-flight pass to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Scheduler] Stopping expiration sweep")

	if m.sweepTicker != nil {
		m.sweepTicker.Stop()
	}
	close(m.stopCh)
	m.wg.Wait()
	m.running = false
}

func (m *Manager) sweepWorker() {
	defer m.wg.Done()

	m.runSweep()

	for {
		select {
		case <-m.sweepTicker.C:
			m.runSweep()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) runSweep() {
	msg, err := m.engine.CheckExpiredAllPaginated(0, "")
	if err != nil {
		log.Errorf("[Scheduler] expiration sweep failed: %v", err)
		return
	}
	log.Infof("[Scheduler] expiration sweep done: %s", msg)

	if err := counter.FlushAll(); err != nil {
		log.Errorf("[Scheduler] failed to flush notification counters: %v", err)
	}
}
