package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simshield/simshield-console/pkg/metrics"
	"github.com/simshield/simshield-console/pkg/models"
)

func testFleet() []models.SimSummary {
	return []models.SimSummary{
		{SimID: "A1", DeviceType: "POS", Status: models.SimStatusActive, City: "Istanbul", RiskScore: 80, AnomalyCount: 2},
		{SimID: "A2", DeviceType: "Tracker", Status: models.SimStatusBlocked, City: "Ankara", RiskScore: 10},
	}
}

func newTestCache(api *MockAPI) *FleetCache {
	return NewFleetCache(api, metrics.NewMetrics(), 30*time.Second, 10*time.Millisecond)
}

func TestRefreshReplacesSnapshotWholesale(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	api.On("Fleet", mock.Anything).Return(testFleet(), nil).Once()
	require.NoError(t, cache.Refresh(context.Background()))
	require.Len(t, cache.Snapshot(), 2)

	// A later refresh fully replaces the previous snapshot, no merging
	api.On("Fleet", mock.Anything).Return([]models.SimSummary{{SimID: "B9"}}, nil).Once()
	require.NoError(t, cache.Refresh(context.Background()))

	snap := cache.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "B9", snap[0].SimID)
	api.AssertExpectations(t)
}

func TestRefreshDerivesMissingRiskLevels(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	api.On("Fleet", mock.Anything).Return([]models.SimSummary{
		{SimID: "A1", RiskScore: 80},
		{SimID: "A2", RiskScore: 55},
		{SimID: "A3", RiskScore: 5},
		{SimID: "A4", RiskScore: 5, RiskLevel: models.RiskLevelRed}, // served level wins
	}, nil)

	require.NoError(t, cache.Refresh(context.Background()))

	snap := cache.Snapshot()
	assert.Equal(t, models.RiskLevelRed, snap[0].RiskLevel)
	assert.Equal(t, models.RiskLevelOrange, snap[1].RiskLevel)
	assert.Equal(t, models.RiskLevelGreen, snap[2].RiskLevel)
	assert.Equal(t, models.RiskLevelRed, snap[3].RiskLevel)
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	api.On("Fleet", mock.Anything).Return(testFleet(), nil).Once()
	require.NoError(t, cache.Refresh(context.Background()))
	before := cache.Snapshot()

	api.On("Fleet", mock.Anything).Return(nil, errors.New("backend down")).Once()
	err := cache.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, before, cache.Snapshot())
	api.AssertExpectations(t)
}

func TestScheduleSettleRefreshRunsAfterDelay(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	refreshed := make(chan struct{})
	api.On("Fleet", mock.Anything).Run(func(args mock.Arguments) {
		close(refreshed)
	}).Return(testFleet(), nil).Once()

	cache.ScheduleSettleRefresh(context.Background())

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("settle refresh never ran")
	}
	require.Eventually(t, func() bool { return len(cache.Snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestStats(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	api.On("Fleet", mock.Anything).Return(testFleet(), nil)
	require.NoError(t, cache.Refresh(context.Background()))

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.HighRisk)
	assert.Equal(t, 2, stats.Anomalies)
}

func TestCitiesSortedAndDeduplicated(t *testing.T) {
	api := &MockAPI{}
	cache := newTestCache(api)

	api.On("Fleet", mock.Anything).Return([]models.SimSummary{
		{SimID: "A1", City: "Izmir"},
		{SimID: "A2", City: "Ankara"},
		{SimID: "A3", City: "Izmir"},
		{SimID: "A4"},
	}, nil)
	require.NoError(t, cache.Refresh(context.Background()))

	assert.Equal(t, []string{"Ankara", "Izmir"}, cache.Cities())
}
