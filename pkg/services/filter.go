package services

import (
	"strings"

	"github.com/simshield/simshield-console/pkg/models"
)

// FleetFilter describes the operator's current fleet view criteria.
// Empty fields match everything.
type FleetFilter struct {
	Search   string // free text over SIM id and device type
	Risk     string // risk band: red, orange, green
	Status   string // SIM status: active, blocked, suspended
	City     string
	Category string // quick-stat category: all, active, high-risk, anomaly
}

// FilterSims applies a filter to a fleet snapshot. Pure: the input slice is
// never mutated and the result is recomputed from scratch on every call.
func FilterSims(sims []models.SimSummary, f FleetFilter) []models.SimSummary {
	search := strings.ToLower(f.Search)

	out := make([]models.SimSummary, 0, len(sims))
	for _, sim := range sims {
		if !matchesCategory(sim, f.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sim.SimID), search) &&
			!strings.Contains(strings.ToLower(sim.DeviceType), search) {
			continue
		}
		if f.Risk != "" && !matchesRisk(sim, f.Risk) {
			continue
		}
		if f.Status != "" && sim.Status != models.SimStatus(f.Status) {
			continue
		}
		if f.City != "" && sim.City != f.City {
			continue
		}
		out = append(out, sim)
	}
	return out
}

func matchesCategory(sim models.SimSummary, category string) bool {
	switch category {
	case "", "all":
		return true
	case "active":
		return sim.Status == models.SimStatusActive
	case "high-risk":
		return sim.RiskScore >= 70
	case "anomaly":
		return sim.AnomalyCount > 0
	default:
		return true
	}
}

// matchesRisk matches the served risk level when present, falling back to
// score bands so SIMs without an explicit level still filter correctly
func matchesRisk(sim models.SimSummary, risk string) bool {
	if string(sim.RiskLevel) == risk {
		return true
	}
	switch risk {
	case "red":
		return sim.RiskScore >= 70
	case "orange":
		return sim.RiskScore >= 40 && sim.RiskScore < 70
	case "green":
		return sim.RiskScore < 40
	}
	return false
}
