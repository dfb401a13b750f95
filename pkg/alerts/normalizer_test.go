package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simshield/simshield-console/pkg/models"
)

type fakeSession struct {
	simID string
}

func (f *fakeSession) BestEffortSimID() string { return f.simID }

func TestNormalizeAnomalyDetected(t *testing.T) {
	payload := []byte(`{"type":"anomaly_detected","sim_id":"S1","risk_score":85}`)

	alert := Normalize(payload, nil)

	assert.Equal(t, models.AlertKindAnomalyDetected, alert.Kind)
	assert.Equal(t, "S1", alert.SimID)
	assert.Equal(t, models.SeverityRed, alert.Severity)
	assert.Equal(t, float64(85), alert.RiskScore)
	assert.Contains(t, alert.Message, "S1")
	assert.NotEmpty(t, alert.ID)
	assert.WithinDuration(t, time.Now(), alert.ReceivedAt, time.Second)
}

func TestNormalizeAnomalySeverityDerivation(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		severity models.Severity
	}{
		{
			name:     "high risk derives red",
			payload:  `{"type":"anomaly_detected","sim_id":"S1","risk_score":70}`,
			severity: models.SeverityRed,
		},
		{
			name:     "medium risk derives orange",
			payload:  `{"type":"anomaly_detected","sim_id":"S1","risk_score":55}`,
			severity: models.SeverityOrange,
		},
		{
			name:     "low risk derives green",
			payload:  `{"type":"anomaly_detected","sim_id":"S1","risk_score":10}`,
			severity: models.SeverityGreen,
		},
		{
			name:     "missing risk score defaults to zero and green",
			payload:  `{"type":"anomaly_detected","sim_id":"S1"}`,
			severity: models.SeverityGreen,
		},
		{
			name:     "payload severity wins over derivation",
			payload:  `{"type":"anomaly_detected","sim_id":"S1","risk_score":85,"severity":"yellow"}`,
			severity: models.SeverityYellow,
		},
		{
			name:     "unknown payload severity falls back to info",
			payload:  `{"type":"anomaly_detected","sim_id":"S1","risk_score":85,"severity":"purple"}`,
			severity: models.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := Normalize([]byte(tt.payload), nil)
			assert.Equal(t, models.AlertKindAnomalyDetected, alert.Kind)
			assert.Equal(t, tt.severity, alert.Severity)
		})
	}
}

func TestNormalizeAnomalyMessageUsesTypeLabel(t *testing.T) {
	payload := []byte(`{"type":"anomaly_detected","sim_id":"S7","risk_score":42,"latest_anomaly":{"type":"unexpected_roaming"}}`)

	alert := Normalize(payload, nil)

	assert.Contains(t, alert.Message, "Unexpected roaming")
	assert.Contains(t, alert.Message, "S7")
	assert.Contains(t, alert.Message, "42")
}

func TestNormalizeAnomalyUnknownTypeGetsGenericLabel(t *testing.T) {
	payload := []byte(`{"type":"anomaly_detected","sim_id":"S7","latest_anomaly":{"type":"time_travel"}}`)

	alert := Normalize(payload, nil)

	assert.Contains(t, alert.Message, "Anomaly")
}

func TestNormalizeBulkAction(t *testing.T) {
	payload := []byte(`{"type":"bulk_action","message":"freeze_24h applied to 1 SIM(s)"}`)

	alert := Normalize(payload, &fakeSession{simID: "S3"})

	assert.Equal(t, models.AlertKindBulkActionCompleted, alert.Kind)
	assert.Equal(t, "freeze_24h applied to 1 SIM(s)", alert.Message)
	assert.Equal(t, "S3", alert.SimID)
	assert.Equal(t, models.SeverityInfo, alert.Severity)
}

func TestNormalizeBulkActionWithoutSession(t *testing.T) {
	payload := []byte(`{"type":"bulk_action","message":"done"}`)

	alert := Normalize(payload, nil)

	assert.Equal(t, models.AlertKindBulkActionCompleted, alert.Kind)
	assert.Empty(t, alert.SimID)
}

func TestNormalizeUndecodableFrame(t *testing.T) {
	raw := "not json"

	require.NotPanics(t, func() {
		alert := Normalize([]byte(raw), nil)
		assert.Equal(t, models.AlertKindUnstructured, alert.Kind)
		assert.Equal(t, raw, alert.Raw)
		assert.Equal(t, raw, alert.Message)
		assert.Equal(t, models.SeverityInfo, alert.Severity)
	})
}

func TestNormalizeUnknownTypeKeepsMessage(t *testing.T) {
	payload := []byte(`{"type":"heartbeat","message":"server restarting","severity":"yellow"}`)

	alert := Normalize(payload, nil)

	assert.Equal(t, models.AlertKindUnstructured, alert.Kind)
	assert.Equal(t, "server restarting", alert.Message)
	assert.Equal(t, models.SeverityYellow, alert.Severity)
	assert.NotEmpty(t, alert.Raw)
}

func TestNormalizeUnknownTypeWithoutMessageKeepsRawText(t *testing.T) {
	payload := []byte(`{"type":"heartbeat"}`)

	alert := Normalize(payload, nil)

	assert.Equal(t, models.AlertKindUnstructured, alert.Kind)
	assert.Equal(t, string(payload), alert.Message)
}

func TestAnomalyTypeLabels(t *testing.T) {
	assert.Equal(t, "Sudden usage spike", AnomalyTypeLabel("sudden_spike"))
	assert.Equal(t, "Sustained high usage", AnomalyTypeLabel("sustained_drain"))
	assert.Equal(t, "Prolonged inactivity", AnomalyTypeLabel("inactivity"))
	assert.Equal(t, "Unexpected roaming", AnomalyTypeLabel("unexpected_roaming"))
	assert.Equal(t, "Anomaly", AnomalyTypeLabel("something_else"))
}
