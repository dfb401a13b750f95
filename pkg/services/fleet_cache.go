package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simshield/simshield-console/pkg/fleetapi"
	"github.com/simshield/simshield-console/pkg/metrics"
	"github.com/simshield/simshield-console/pkg/models"
)

// FleetStats are the quick-stat totals over the current snapshot
type FleetStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	HighRisk  int `json:"high_risk"`
	Anomalies int `json:"anomalies"`
}

// FleetCache holds the latest fetched fleet snapshot. Every successful
// refresh replaces the snapshot wholesale; a failed refresh keeps the
// previous one. Refreshes are not serialized against each other: the last
// one to complete wins, so a slow earlier refresh can briefly shadow a
// faster later one. Accepted behavior, inherited from the source system.
type FleetCache struct {
	api         fleetapi.API
	metrics     *metrics.Metrics
	interval    time.Duration
	settleDelay time.Duration

	mu          sync.RWMutex
	sims        []models.SimSummary
	lastRefresh time.Time
}

// NewFleetCache creates an empty fleet cache
func NewFleetCache(api fleetapi.API, m *metrics.Metrics, interval, settleDelay time.Duration) *FleetCache {
	return &FleetCache{
		api:         api,
		metrics:     m,
		interval:    interval,
		settleDelay: settleDelay,
	}
}

// Refresh fetches the fleet list and atomically replaces the snapshot.
// On failure the previous snapshot is left untouched and the failure is
// reported through log and metric rather than thrown at a caller that
// cannot handle it.
func (f *FleetCache) Refresh(ctx context.Context) error {
	f.metrics.FleetRefreshes.Inc()

	sims, err := f.api.Fleet(ctx)
	if err != nil {
		f.metrics.FleetRefreshFailures.Inc()
		logrus.Errorf("Fleet refresh failed, keeping previous snapshot: %v", err)
		return err
	}

	// Normalize missing risk levels at the boundary
	for i := range sims {
		if sims[i].RiskLevel == "" {
			sims[i].RiskLevel = models.RiskLevelForScore(sims[i].RiskScore)
		}
	}

	f.mu.Lock()
	f.sims = sims
	f.lastRefresh = time.Now()
	f.mu.Unlock()

	f.metrics.FleetSize.Set(float64(len(sims)))
	logrus.Debugf("Fleet snapshot replaced: %d SIMs", len(sims))
	return nil
}

// ScheduleSettleRefresh refreshes after a short delay, giving the backend
// time to settle after an alert-triggering event
func (f *FleetCache) ScheduleSettleRefresh(ctx context.Context) {
	time.AfterFunc(f.settleDelay, func() {
		// Errors already reported inside Refresh
		_ = f.Refresh(ctx)
	})
}

// Start runs the periodic refresh loop until the context is cancelled
func (f *FleetCache) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = f.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Snapshot returns a copy of the current fleet snapshot
func (f *FleetCache) Snapshot() []models.SimSummary {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.SimSummary, len(f.sims))
	copy(out, f.sims)
	return out
}

// LastRefresh returns when the snapshot was last replaced
func (f *FleetCache) LastRefresh() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastRefresh
}

// Stats computes the quick-stat totals over the current snapshot
func (f *FleetCache) Stats() FleetStats {
	f.mu.RLock()
	defer f.mu.RUnlock()

	stats := FleetStats{Total: len(f.sims)}
	for _, sim := range f.sims {
		if sim.Status == models.SimStatusActive {
			stats.Active++
		}
		if sim.EffectiveRiskLevel() == models.RiskLevelRed {
			stats.HighRisk++
		}
		stats.Anomalies += sim.AnomalyCount
	}
	return stats
}

// Cities returns the sorted set of cities present in the snapshot, for
// populating a city filter
func (f *FleetCache) Cities() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	seen := make(map[string]bool)
	var cities []string
	for _, sim := range f.sims {
		if sim.City != "" && !seen[sim.City] {
			seen[sim.City] = true
			cities = append(cities, sim.City)
		}
	}
	sort.Strings(cities)
	return cities
}
