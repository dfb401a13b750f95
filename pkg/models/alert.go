package models

import (
	"time"
)

// AlertKind classifies a normalized inbound event
type AlertKind string

const (
	AlertKindAnomalyDetected     AlertKind = "anomaly_detected"
	AlertKindBulkActionCompleted AlertKind = "bulk_action"
	AlertKindUnstructured        AlertKind = "unstructured"
)

// Severity represents the severity level of an alert
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityYellow Severity = "yellow"
	SeverityGreen  Severity = "green"
	SeverityInfo   Severity = "info"
)

// ParseSeverity maps a raw severity string to a known level, defaulting to info
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityRed, SeverityOrange, SeverityYellow, SeverityGreen, SeverityInfo:
		return Severity(s)
	default:
		return SeverityInfo
	}
}

// SeverityForRisk derives a severity level from a risk score
func SeverityForRisk(score float64) Severity {
	switch {
	case score >= 70:
		return SeverityRed
	case score >= 40:
		return SeverityOrange
	default:
		return SeverityGreen
	}
}

// Alert represents a normalized inbound event from the live alert feed
type Alert struct {
	ID         string    `json:"id"`
	Kind       AlertKind `json:"kind"`
	SimID      string    `json:"simId,omitempty"`
	Severity   Severity  `json:"severity"`
	RiskScore  float64   `json:"riskScore,omitempty"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
	Raw        string    `json:"raw,omitempty"` // original payload, kept for diagnostics
}
