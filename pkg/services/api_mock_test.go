package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/simshield/simshield-console/pkg/fleetapi"
	"github.com/simshield/simshield-console/pkg/models"
)

// MockAPI is a mock implementation of the fleetapi.API interface
type MockAPI struct {
	mock.Mock
}

// Ensure MockAPI implements fleetapi.API
var _ fleetapi.API = (*MockAPI)(nil)

func (m *MockAPI) Fleet(ctx context.Context) ([]models.SimSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SimSummary), args.Error(1)
}

func (m *MockAPI) Usage(ctx context.Context, simID string, days int) ([]models.UsagePoint, error) {
	args := m.Called(ctx, simID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UsagePoint), args.Error(1)
}

func (m *MockAPI) Analyze(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, simID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func (m *MockAPI) LatestAnalysis(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, simID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func (m *MockAPI) DispatchAction(ctx context.Context, req models.ActionRequest) (*models.ActionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActionResponse), args.Error(1)
}

func (m *MockAPI) BestOptions(ctx context.Context, simID string) ([]models.PlanOption, error) {
	args := m.Called(ctx, simID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlanOption), args.Error(1)
}

func (m *MockAPI) WhatIf(ctx context.Context, simID string, req models.WhatIfRequest) (*models.WhatIfResult, error) {
	args := m.Called(ctx, simID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WhatIfResult), args.Error(1)
}
