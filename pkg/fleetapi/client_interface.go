package fleetapi

import (
	"context"

	"github.com/simshield/simshield-console/pkg/models"
)

// API defines the interface for the SimShield backend client
// This allows us to mock the client for testing
type API interface {
	Fleet(ctx context.Context) ([]models.SimSummary, error)
	Usage(ctx context.Context, simID string, days int) ([]models.UsagePoint, error)
	Analyze(ctx context.Context, simID string) (*models.AnalysisResult, error)
	LatestAnalysis(ctx context.Context, simID string) (*models.AnalysisResult, error)
	DispatchAction(ctx context.Context, req models.ActionRequest) (*models.ActionResponse, error)
	BestOptions(ctx context.Context, simID string) ([]models.PlanOption, error)
	WhatIf(ctx context.Context, simID string, req models.WhatIfRequest) (*models.WhatIfResult, error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)
