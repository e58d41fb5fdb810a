package availability

import (
	"context"
	"sync"
	"time"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// Watcher keeps the ordering status current by re-reading the company
// settings on a fixed interval and on demand
type Watcher struct {
	provider  interfaces.SettingsProvider
	evaluator *Evaluator
	interval  time.Duration
	logger    logger.Logger

	mu       sync.RWMutex
	settings domain.CompanySettings
	status   interfaces.AvailabilityStatus
}

func NewWatcher(provider interfaces.SettingsProvider, evaluator *Evaluator, interval time.Duration, logger logger.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}

	w := &Watcher{
		provider:  provider,
		evaluator: evaluator,
		interval:  interval,
		logger:    logger,
		settings:  domain.DefaultCompanySettings(),
	}
	w.status = openStatus(evaluator.now().In(evaluator.location))
	return w
}

// Start performs the first refresh and keeps refreshing until ctx is done
func (w *Watcher) Start(ctx context.Context) {
	w.Refresh(ctx)
	go w.refreshLoop(ctx)
}

func (w *Watcher) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("availability_watcher_stopped", "Availability watcher stopped", "", nil)
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh fetches the settings and re-evaluates. A failed fetch keeps the
// previous settings but reports ordering as enabled.
func (w *Watcher) Refresh(ctx context.Context) interfaces.AvailabilityStatus {
	settings, err := w.provider.GetSettings(ctx)
	if err != nil {
		w.logger.Error("settings_fetch_failed", "Failed to fetch company settings, ordering stays enabled", "", nil, err)

		status := openStatus(w.evaluator.now().In(w.evaluator.location))
		w.mu.Lock()
		w.status = status
		w.mu.Unlock()
		return status
	}

	status := w.evaluator.Evaluate(settings)

	w.mu.Lock()
	changed := status.OrderingEnabled != w.status.OrderingEnabled
	w.settings = settings
	w.status = status
	w.mu.Unlock()

	details := map[string]interface{}{
		"ordering_enabled": status.OrderingEnabled,
		"day_enabled":      status.DayEnabled,
		"within_hours":     status.WithinHours,
		"weekday":          status.Weekday,
	}
	if changed {
		w.logger.Info("availability_changed", "Ordering availability changed", "", details)
	} else {
		w.logger.Debug("availability_checked", "Ordering availability checked", "", details)
	}

	return status
}

// Status returns the result of the last refresh
func (w *Watcher) Status() interfaces.AvailabilityStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// Settings returns the last successfully fetched settings
func (w *Watcher) Settings() domain.CompanySettings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

func openStatus(at time.Time) interfaces.AvailabilityStatus {
	return interfaces.AvailabilityStatus{
		OrderingEnabled: true,
		DayEnabled:      true,
		WithinHours:     true,
		Weekday:         DayCode(at.Weekday()),
		CheckedAt:       at,
	}
}
