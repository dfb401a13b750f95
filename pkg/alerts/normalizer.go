package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simshield/simshield-console/pkg/models"
)

// SessionContext supplies the best-effort SIM association for alerts whose
// payload does not carry one (bulk action confirmations)
type SessionContext interface {
	// BestEffortSimID returns the last manually actioned SIM if tracked,
	// else the currently selected SIM, else ""
	BestEffortSimID() string
}

// anomalyTypeLabels maps backend anomaly types to operator-facing labels
var anomalyTypeLabels = map[string]string{
	"sudden_spike":       "Sudden usage spike",
	"sustained_drain":    "Sustained high usage",
	"inactivity":         "Prolonged inactivity",
	"unexpected_roaming": "Unexpected roaming",
}

// AnomalyTypeLabel returns the display label for an anomaly type. Unknown
// types get a generic label, never an error.
func AnomalyTypeLabel(anomalyType string) string {
	if label, ok := anomalyTypeLabels[anomalyType]; ok {
		return label
	}
	return "Anomaly"
}

// alertFrame is the wire shape of a live alert feed message
type alertFrame struct {
	Type          string   `json:"type"`
	SimID         string   `json:"sim_id"`
	Severity      string   `json:"severity"`
	RiskScore     *float64 `json:"risk_score"`
	Message       string   `json:"message"`
	LatestAnomaly *struct {
		Type string `json:"type"`
	} `json:"latest_anomaly"`
}

// Normalize converts a raw feed payload into an Alert. It never fails: a
// payload that cannot be decoded degrades to an unstructured alert carrying
// the raw text. ReceivedAt is always assigned here, never trusted from the
// payload.
func Normalize(payload []byte, sess SessionContext) models.Alert {
	alert := models.Alert{
		ID:         uuid.New().String(),
		Kind:       models.AlertKindUnstructured,
		Severity:   models.SeverityInfo,
		ReceivedAt: time.Now(),
	}

	var frame alertFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		alert.Message = string(payload)
		alert.Raw = string(payload)
		return alert
	}

	switch frame.Type {
	case "anomaly_detected":
		alert.Kind = models.AlertKindAnomalyDetected
		alert.SimID = frame.SimID
		if frame.RiskScore != nil {
			alert.RiskScore = *frame.RiskScore
		}
		if frame.Severity != "" {
			alert.Severity = models.ParseSeverity(frame.Severity)
		} else {
			alert.Severity = models.SeverityForRisk(alert.RiskScore)
		}
		anomalyType := ""
		if frame.LatestAnomaly != nil {
			anomalyType = frame.LatestAnomaly.Type
		}
		alert.Message = fmt.Sprintf("%s detected on %s (risk %d)",
			AnomalyTypeLabel(anomalyType), frame.SimID, int(alert.RiskScore))

	case "bulk_action":
		alert.Kind = models.AlertKindBulkActionCompleted
		alert.Message = frame.Message
		// The payload may not carry a SIM id; associate from session context
		if sess != nil {
			alert.SimID = sess.BestEffortSimID()
		}
		if frame.Severity != "" {
			alert.Severity = models.ParseSeverity(frame.Severity)
		}

	default:
		if frame.Message != "" {
			alert.Message = frame.Message
		} else {
			alert.Message = string(payload)
		}
		if frame.Severity != "" {
			alert.Severity = models.ParseSeverity(frame.Severity)
		}
		alert.Raw = string(payload)
	}

	return alert
}
