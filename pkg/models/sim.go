package models

import (
	"time"
)

// SimStatus represents the provisioning state of a SIM card
type SimStatus string

const (
	SimStatusActive    SimStatus = "active"
	SimStatusBlocked   SimStatus = "blocked"
	SimStatusSuspended SimStatus = "suspended"
)

// RiskLevel represents the risk band of a SIM
type RiskLevel string

const (
	RiskLevelGreen  RiskLevel = "green"
	RiskLevelOrange RiskLevel = "orange"
	RiskLevelRed    RiskLevel = "red"
)

// RiskLevelForScore derives a risk band from a numeric risk score
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskLevelRed
	case score >= 40:
		return RiskLevelOrange
	default:
		return RiskLevelGreen
	}
}

// SimSummary is one row of the fleet overview as served by the backend
type SimSummary struct {
	SimID        string     `json:"sim_id"`
	DeviceType   string     `json:"device_type"`
	APN          string     `json:"apn,omitempty"`
	Plan         string     `json:"plan,omitempty"`
	Status       SimStatus  `json:"status"`
	City         string     `json:"city"`
	RiskScore    int        `json:"risk_score"`
	RiskLevel    RiskLevel  `json:"risk_level,omitempty"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	AnomalyCount int        `json:"anomaly_count"`
}

// EffectiveRiskLevel returns the served risk level, deriving it from the
// score when the backend omitted it
func (s SimSummary) EffectiveRiskLevel() RiskLevel {
	if s.RiskLevel != "" {
		return s.RiskLevel
	}
	return RiskLevelForScore(s.RiskScore)
}

// UsagePoint is one sample of a SIM's usage history
type UsagePoint struct {
	Timestamp time.Time `json:"timestamp"`
	MBUsed    float64   `json:"mb_used"`
	RoamingMB float64   `json:"roaming_mb,omitempty"`
}

// Anomaly is one detected anomaly inside an analysis result
type Anomaly struct {
	Type       string                 `json:"type"`
	DetectedAt time.Time              `json:"detected_at"`
	Reason     string                 `json:"reason"`
	Evidence   map[string]interface{} `json:"evidence,omitempty"`
}

// AnalysisResult is the outcome of a server-side anomaly analysis for one SIM
type AnalysisResult struct {
	Anomalies []Anomaly `json:"anomalies"`
	RiskScore int       `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
	Summary   string    `json:"summary"`
}
