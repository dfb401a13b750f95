package fleetapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simshield/simshield-console/pkg/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestFleetDecodesBareArray(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/fleet", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"sim_id":"A1","status":"active","risk_score":80}]`))
	})
	defer server.Close()

	sims, err := client.Fleet(context.Background())
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, "A1", sims[0].SimID)
	assert.Equal(t, models.SimStatusActive, sims[0].Status)
	assert.Equal(t, 80, sims[0].RiskScore)
}

func TestFleetDecodesWrappedObject(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sims":[{"sim_id":"A1"},{"sim_id":"A2"}]}`))
	})
	defer server.Close()

	sims, err := client.Fleet(context.Background())
	require.NoError(t, err)
	require.Len(t, sims, 2)
	assert.Equal(t, "A2", sims[1].SimID)
}

func TestFleetNon2xxReturnsAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.Fleet(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "500")
}

func TestUsageDecodesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[{"timestamp":"2026-08-01T00:00:00Z","mb_used":12.5}]`},
		{name: "wrapped object", body: `{"usage":[{"timestamp":"2026-08-01T00:00:00Z","mb_used":12.5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/usage/S1", r.URL.Path)
				assert.Equal(t, "14", r.URL.Query().Get("days"))
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			usage, err := client.Usage(context.Background(), "S1", 14)
			require.NoError(t, err)
			require.Len(t, usage, 1)
			assert.Equal(t, 12.5, usage[0].MBUsed)
		})
	}
}

func TestLatestAnalysisNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no analysis", http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.LatestAnalysis(context.Background(), "S1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAnalyzePostsAndDecodes(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/analyze/S1", r.URL.Path)
		w.Write([]byte(`{"anomalies":[{"type":"sudden_spike","reason":"spike"}],"risk_score":75,"risk_level":"red","summary":"bad"}`))
	})
	defer server.Close()

	result, err := client.Analyze(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 75, result.RiskScore)
	assert.Equal(t, models.RiskLevelRed, result.RiskLevel)
	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "sudden_spike", result.Anomalies[0].Type)
}

func TestDispatchActionSendsRequestBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/actions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.ActionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"S1"}, req.SimIDs)
		assert.Equal(t, models.ActionFreeze24h, req.Action)

		w.Write([]byte(`{"message":"freeze_24h applied to 1 SIM(s)"}`))
	})
	defer server.Close()

	resp, err := client.DispatchAction(context.Background(), models.ActionRequest{
		SimIDs: []string{"S1"},
		Action: models.ActionFreeze24h,
		Reason: "manual",
	})
	require.NoError(t, err)
	assert.Equal(t, "freeze_24h applied to 1 SIM(s)", resp.Message)
}

func TestWhatIfRoundTrip(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/whatif/S1", r.URL.Path)

		var req models.WhatIfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "spike_day", req.Scenario)
		assert.Equal(t, 30, req.Parameters.DurationDays)

		w.Write([]byte(`{"current_monthly":20,"projected_monthly":35,"cost_change":15,"risk_change":5}`))
	})
	defer server.Close()

	result, err := client.WhatIf(context.Background(), "S1", models.WhatIfRequest{
		Scenario:   "spike_day",
		Parameters: models.WhatIfParameters{DurationDays: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(15), result.CostChange)
	assert.Equal(t, 5, result.RiskChange)
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		origin  string
		want    string
		wantErr bool
	}{
		{origin: "http://localhost:8080", want: "ws://localhost:8080/api/v1/ws/alerts"},
		{origin: "https://api.example.com", want: "wss://api.example.com/api/v1/ws/alerts"},
		{origin: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		got, err := WebSocketURL(tt.origin)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
