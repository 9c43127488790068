// Package monitor keeps one availability status per backend service,
// refreshed by periodic health probes.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// DefaultInterval is the fixed re-probe period.
const DefaultInterval = 30 * time.Second

// Monitor owns the ServiceStatus entries. Each probe overwrites the
// previous status for its service; no history is kept.
type Monitor struct {
	mu       sync.Mutex
	statuses map[domain.Mode]domain.ServiceStatus
	probers  []domain.Prober
	interval time.Duration
	logger   *zap.Logger
}

// New creates a monitor over the given probers. Every service starts in
// the checking state, which callers treat as "assume available".
func New(probers []domain.Prober, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	statuses := make(map[domain.Mode]domain.ServiceStatus, len(probers))
	for _, p := range probers {
		statuses[p.Service()] = domain.ServiceStatus{
			Service: p.Service(),
			State:   domain.AvailabilityChecking,
		}
	}
	return &Monitor{
		statuses: statuses,
		probers:  probers,
		interval: interval,
		logger:   logger,
	}
}

// Start probes all services immediately, then re-probes on the fixed
// interval until ctx is done. It blocks; run it in its own goroutine.
func (m *Monitor) Start(ctx context.Context) {
	m.CheckNow(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow probes every service once and returns when all statuses are
// updated. Used on the interval and on-demand before a mode switch.
func (m *Monitor) CheckNow(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range m.probers {
		wg.Add(1)
		go func(p domain.Prober) {
			defer wg.Done()
			m.probe(ctx, p)
		}(p)
	}
	wg.Wait()
}

func (m *Monitor) probe(ctx context.Context, p domain.Prober) {
	state := domain.AvailabilityConnected
	if err := p.Probe(ctx); err != nil {
		state = domain.AvailabilityError
		m.logger.Warn("health probe failed",
			zap.String("service", string(p.Service())),
			zap.Error(err))
	}
	m.mu.Lock()
	prev := m.statuses[p.Service()].State
	m.statuses[p.Service()] = domain.ServiceStatus{
		Service:     p.Service(),
		State:       state,
		LastChecked: time.Now(),
	}
	m.mu.Unlock()
	if prev != state {
		m.logger.Info("service availability changed",
			zap.String("service", string(p.Service())),
			zap.String("from", string(prev)),
			zap.String("to", string(state)))
	}
}

// Status returns the latest status for a service. An unknown service
// reports the checking state.
func (m *Monitor) Status(service domain.Mode) domain.ServiceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.statuses[service]; ok {
		return s
	}
	return domain.ServiceStatus{Service: service, State: domain.AvailabilityChecking}
}
