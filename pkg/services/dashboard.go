package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simshield/simshield-console/pkg/alerts"
	"github.com/simshield/simshield-console/pkg/config"
	"github.com/simshield/simshield-console/pkg/fleetapi"
	"github.com/simshield/simshield-console/pkg/metrics"
	"github.com/simshield/simshield-console/pkg/models"
	"github.com/simshield/simshield-console/pkg/transport"
)

// Status is the console's connection status view: the live alert feed state
// plus the freshness of the fleet snapshot
type Status struct {
	FeedState   transport.State `json:"feed_state"`
	FleetSize   int             `json:"fleet_size"`
	LastRefresh time.Time       `json:"last_refresh,omitempty"`
	AlertsHeld  int             `json:"alerts_held"`
	SelectedSim string          `json:"selected_sim,omitempty"`
}

// Dashboard is the console core. It owns the session, the alert ring store
// and the fleet snapshot cache, feeds them from the live alert feed, and
// exposes the read accessors and intents the serving layer binds to.
// The stores are never handed out by reference.
type Dashboard struct {
	api     fleetapi.API
	session *Session
	ring    *alerts.RingStore
	fleet   *FleetCache
	feed    *transport.Client
	metrics *metrics.Metrics

	ctx context.Context
}

// NewDashboard wires up the console core. feedURL may be empty in tests;
// Start then skips the transport.
func NewDashboard(cfg *config.Config, api fleetapi.API, feedURL string, m *metrics.Metrics) *Dashboard {
	d := &Dashboard{
		api:     api,
		session: NewSession(),
		ring:    alerts.NewRingStore(cfg.Alerts.RingCapacity),
		fleet:   NewFleetCache(api, m, cfg.Backend.RefreshInterval(), cfg.Backend.SettleDelay()),
		metrics: m,
		ctx:     context.Background(),
	}
	if feedURL != "" {
		d.feed = transport.NewClient(feedURL, d, cfg.Backend.ReconnectDelay())
	}
	return d
}

// Start performs the initial fleet load, starts the periodic refresh loop
// and connects the live alert feed
func (d *Dashboard) Start(ctx context.Context) {
	d.ctx = ctx
	if err := d.fleet.Refresh(ctx); err != nil {
		logrus.Warnf("Initial fleet load failed: %v", err)
	}
	d.fleet.Start(ctx)
	if d.feed != nil {
		d.feed.Connect(ctx)
	}
}

// Shutdown tears down the live alert feed
func (d *Dashboard) Shutdown() {
	if d.feed != nil {
		d.feed.Shutdown()
	}
}

// HandleFrame normalizes an inbound feed frame, admits it to the ring store
// and schedules a settle-delayed fleet refresh for alert kinds that imply
// server-side state changed
func (d *Dashboard) HandleFrame(payload []byte) {
	alert := alerts.Normalize(payload, d.session)
	d.metrics.AlertsReceived.WithLabelValues(string(alert.Kind)).Inc()
	if !json.Valid(payload) {
		d.metrics.MalformedFrames.Inc()
	}
	d.ring.Push(alert)

	switch alert.Kind {
	case models.AlertKindAnomalyDetected:
		d.fleet.ScheduleSettleRefresh(d.ctx)
	case models.AlertKindBulkActionCompleted:
		// The confirmation consumed the last-action association
		d.session.ClearLastAction()
		d.fleet.ScheduleSettleRefresh(d.ctx)
	}
}

// HandleStateChange surfaces feed state transitions as synthetic alerts so
// the operator sees connects and disconnects inline with the alert list
func (d *Dashboard) HandleStateChange(state transport.State) {
	switch state {
	case transport.StateOpen:
		d.metrics.FeedConnected.Set(1)
		d.pushSystemAlert("Live alert feed connected")
	case transport.StateClosed:
		d.metrics.FeedConnected.Set(0)
		d.metrics.Reconnects.Inc()
		d.pushSystemAlert("Live alert feed disconnected, reconnecting")
	case transport.StateConnecting:
		d.metrics.FeedConnected.Set(0)
	}
}

func (d *Dashboard) pushSystemAlert(message string) {
	d.ring.Push(models.Alert{
		ID:         uuid.New().String(),
		Kind:       models.AlertKindUnstructured,
		Severity:   models.SeverityInfo,
		Message:    message,
		ReceivedAt: time.Now(),
	})
}

// Alerts returns the current ring store contents, most recent first
func (d *Dashboard) Alerts() []models.Alert {
	return d.ring.Snapshot()
}

// ClearAlerts empties the alert list on operator request
func (d *Dashboard) ClearAlerts() {
	d.ring.Clear()
}

// Fleet returns the current fleet snapshot
func (d *Dashboard) Fleet() []models.SimSummary {
	return d.fleet.Snapshot()
}

// FilteredFleet applies view criteria to the current snapshot
func (d *Dashboard) FilteredFleet(f FleetFilter) []models.SimSummary {
	return FilterSims(d.fleet.Snapshot(), f)
}

// RefreshFleet performs a manual fleet refresh
func (d *Dashboard) RefreshFleet(ctx context.Context) error {
	return d.fleet.Refresh(ctx)
}

// FleetStats returns the quick-stat totals
func (d *Dashboard) FleetStats() FleetStats {
	return d.fleet.Stats()
}

// Cities returns the city filter options
func (d *Dashboard) Cities() []string {
	return d.fleet.Cities()
}

// Status reports the feed state and snapshot freshness
func (d *Dashboard) Status() Status {
	state := transport.StateClosed
	if d.feed != nil {
		state = d.feed.State()
	}
	return Status{
		FeedState:   state,
		FleetSize:   len(d.fleet.Snapshot()),
		LastRefresh: d.fleet.LastRefresh(),
		AlertsHeld:  d.ring.Len(),
		SelectedSim: d.session.SelectedSimID(),
	}
}

// SelectSim records the operator's SIM selection
func (d *Dashboard) SelectSim(simID string) {
	d.session.Select(simID)
}

// DispatchAction applies a manual remediation action. The first targeted SIM
// is remembered so the eventual bulk action confirmation can be associated
// with it.
func (d *Dashboard) DispatchAction(ctx context.Context, req models.ActionRequest) (*models.ActionResponse, error) {
	if len(req.SimIDs) > 0 {
		d.session.RecordAction(req.SimIDs[0])
	}
	resp, err := d.api.DispatchAction(ctx, req)
	if err != nil {
		logrus.Errorf("Action %s failed: %v", req.Action, err)
		return nil, err
	}
	d.metrics.ActionsDispatched.WithLabelValues(string(req.Action)).Inc()
	logrus.Infof("Action %s dispatched for %d SIM(s)", req.Action, len(req.SimIDs))
	return resp, nil
}

// Usage proxies a usage history fetch
func (d *Dashboard) Usage(ctx context.Context, simID string, days int) ([]models.UsagePoint, error) {
	return d.api.Usage(ctx, simID, days)
}

// Analyze triggers a fresh anomaly analysis
func (d *Dashboard) Analyze(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	return d.api.Analyze(ctx, simID)
}

// LatestAnalysis fetches the most recent analysis, if any
func (d *Dashboard) LatestAnalysis(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	return d.api.LatestAnalysis(ctx, simID)
}

// BestOptions fetches the ranked plan/addon candidates
func (d *Dashboard) BestOptions(ctx context.Context, simID string) ([]models.PlanOption, error) {
	return d.api.BestOptions(ctx, simID)
}

// WhatIf projects a usage scenario
func (d *Dashboard) WhatIf(ctx context.Context, simID string, req models.WhatIfRequest) (*models.WhatIfResult, error) {
	return d.api.WhatIf(ctx, simID, req)
}
