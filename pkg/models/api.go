package models

// ActionType represents a manual remediation action applied to SIMs
type ActionType string

const (
	ActionFreeze24h ActionType = "freeze_24h"
	ActionThrottle  ActionType = "throttle"
	ActionNotify    ActionType = "notify"
)

// ValidAction reports whether the given action type is one the backend accepts
func ValidAction(a ActionType) bool {
	switch a {
	case ActionFreeze24h, ActionThrottle, ActionNotify:
		return true
	}
	return false
}

// ActionRequest is the payload for dispatching a bulk remediation action
type ActionRequest struct {
	SimIDs []string   `json:"sim_ids"`
	Action ActionType `json:"action"`
	Reason string     `json:"reason"`
}

// ActionResponse is the backend's confirmation of an action dispatch
type ActionResponse struct {
	Status  string                   `json:"status,omitempty"`
	Created []map[string]interface{} `json:"created,omitempty"`
	Message string                   `json:"message"`
}

// CostBreakdown itemizes the monthly cost of a plan/addon candidate
type CostBreakdown struct {
	BaseCost    float64 `json:"base_cost"`
	OverageCost float64 `json:"overage_cost"`
	AddonCost   float64 `json:"addon_cost"`
	TotalCost   float64 `json:"total_cost"`
}

// PlanOption is one candidate from the best-options ranking for a SIM
type PlanOption struct {
	PlanID         string        `json:"plan_id,omitempty"`
	Name           string        `json:"name"`
	Addons         []string      `json:"addons,omitempty"`
	CurrentTotal   float64       `json:"current_total"`
	CandidateTotal float64       `json:"candidate_total"`
	Saving         float64       `json:"saving"`
	Breakdown      CostBreakdown `json:"breakdown"`
	Description    string        `json:"description,omitempty"`
}

// WhatIfParameters tunes a cost/risk projection scenario
type WhatIfParameters struct {
	DurationDays int `json:"duration_days"`
}

// WhatIfRequest asks the backend to project a usage scenario for a SIM
type WhatIfRequest struct {
	Scenario   string           `json:"scenario"`
	Parameters WhatIfParameters `json:"parameters"`
}

// WhatIfResult is the projected cost/risk delta for a scenario
type WhatIfResult struct {
	CurrentMonthly   float64       `json:"current_monthly"`
	ProjectedMonthly float64       `json:"projected_monthly"`
	CostChange       float64       `json:"cost_change"`
	RiskChange       int           `json:"risk_change"`
	Breakdown        CostBreakdown `json:"breakdown,omitempty"`
	Recommendations  []string      `json:"recommendations,omitempty"`
	Description      string        `json:"description,omitempty"`
}
