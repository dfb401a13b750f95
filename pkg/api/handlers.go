package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/simshield/simshield-console/pkg/fleetapi"
	"github.com/simshield/simshield-console/pkg/models"
	"github.com/simshield/simshield-console/pkg/services"
)

// APIHandler handles HTTP API requests
type APIHandler struct {
	dashboard *services.Dashboard
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(dashboard *services.Dashboard) *APIHandler {
	return &APIHandler{
		dashboard: dashboard,
	}
}

// GetAlerts returns the current alert list, most recent first
func (h *APIHandler) GetAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Alerts())
}

// ClearAlerts empties the alert list
func (h *APIHandler) ClearAlerts(c echo.Context) error {
	h.dashboard.ClearAlerts()
	return c.JSON(http.StatusOK, map[string]string{"message": "Alerts cleared"})
}

// GetFleet returns the fleet snapshot, filtered by any query criteria
func (h *APIHandler) GetFleet(c echo.Context) error {
	filter := services.FleetFilter{
		Search:   c.QueryParam("search"),
		Risk:     c.QueryParam("risk"),
		Status:   c.QueryParam("status"),
		City:     c.QueryParam("city"),
		Category: c.QueryParam("category"),
	}
	return c.JSON(http.StatusOK, h.dashboard.FilteredFleet(filter))
}

// GetFleetStats returns the quick-stat totals over the current snapshot
func (h *APIHandler) GetFleetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.FleetStats())
}

// GetCities returns the city filter options
func (h *APIHandler) GetCities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Cities())
}

// RefreshFleet performs a manual fleet refresh
func (h *APIHandler) RefreshFleet(c echo.Context) error {
	if err := h.dashboard.RefreshFleet(c.Request().Context()); err != nil {
		logrus.Errorf("Error refreshing fleet: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to refresh fleet: %v", err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Fleet refreshed"})
}

// GetStatus returns the connection status view
func (h *APIHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.Status())
}

// SelectSim records the operator's SIM selection
func (h *APIHandler) SelectSim(c echo.Context) error {
	simID := c.Param("id")
	h.dashboard.SelectSim(simID)
	return c.JSON(http.StatusOK, map[string]string{"message": fmt.Sprintf("SIM %s selected", simID)})
}

// GetUsage returns the usage history of a SIM
func (h *APIHandler) GetUsage(c echo.Context) error {
	simID := c.Param("id")
	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid days parameter"})
		}
		days = parsed
	}

	usage, err := h.dashboard.Usage(c.Request().Context(), simID, days)
	if err != nil {
		logrus.Errorf("Error getting usage for %s: %v", simID, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to get usage: %v", err)})
	}
	return c.JSON(http.StatusOK, usage)
}

// AnalyzeSim triggers a fresh anomaly analysis for a SIM
func (h *APIHandler) AnalyzeSim(c echo.Context) error {
	simID := c.Param("id")
	result, err := h.dashboard.Analyze(c.Request().Context(), simID)
	if err != nil {
		logrus.Errorf("Error analyzing %s: %v", simID, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to analyze SIM: %v", err)})
	}
	return c.JSON(http.StatusOK, result)
}

// GetAnalysis returns the most recent analysis for a SIM
func (h *APIHandler) GetAnalysis(c echo.Context) error {
	simID := c.Param("id")
	result, err := h.dashboard.LatestAnalysis(c.Request().Context(), simID)
	if err != nil {
		if errors.Is(err, fleetapi.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("No analysis for SIM %s", simID)})
		}
		logrus.Errorf("Error getting analysis for %s: %v", simID, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to get analysis: %v", err)})
	}
	return c.JSON(http.StatusOK, result)
}

// GetBestOptions returns the ranked plan/addon candidates for a SIM
func (h *APIHandler) GetBestOptions(c echo.Context) error {
	simID := c.Param("id")
	options, err := h.dashboard.BestOptions(c.Request().Context(), simID)
	if err != nil {
		logrus.Errorf("Error getting best options for %s: %v", simID, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to get best options: %v", err)})
	}
	return c.JSON(http.StatusOK, options)
}

// WhatIf projects a usage scenario for a SIM
func (h *APIHandler) WhatIf(c echo.Context) error {
	simID := c.Param("id")
	var req models.WhatIfRequest
	if err := c.Bind(&req); err != nil {
		logrus.Errorf("Error binding what-if request: %v", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Scenario == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Scenario is required"})
	}

	result, err := h.dashboard.WhatIf(c.Request().Context(), simID, req)
	if err != nil {
		logrus.Errorf("Error running what-if for %s: %v", simID, err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to run what-if: %v", err)})
	}
	return c.JSON(http.StatusOK, result)
}

// DispatchAction applies a manual remediation action to one or more SIMs
func (h *APIHandler) DispatchAction(c echo.Context) error {
	var req models.ActionRequest
	if err := c.Bind(&req); err != nil {
		logrus.Errorf("Error binding action request: %v", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	// Validate request
	if len(req.SimIDs) == 0 || !models.ValidAction(req.Action) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sim_ids and a valid action are required"})
	}

	resp, err := h.dashboard.DispatchAction(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("Failed to dispatch action: %v", err)})
	}
	return c.JSON(http.StatusOK, resp)
}

// SetupRoutes sets up the API routes
func (h *APIHandler) SetupRoutes(e *echo.Echo) {
	// Alert endpoints
	e.GET("/api/alerts", h.GetAlerts)
	e.POST("/api/alerts/clear", h.ClearAlerts)

	// Fleet endpoints
	e.GET("/api/fleet", h.GetFleet)
	e.GET("/api/fleet/stats", h.GetFleetStats)
	e.GET("/api/fleet/cities", h.GetCities)
	e.POST("/api/fleet/refresh", h.RefreshFleet)

	// Status endpoint
	e.GET("/api/status", h.GetStatus)

	// Per-SIM endpoints
	e.POST("/api/sims/:id/select", h.SelectSim)
	e.GET("/api/sims/:id/usage", h.GetUsage)
	e.POST("/api/sims/:id/analyze", h.AnalyzeSim)
	e.GET("/api/sims/:id/analysis", h.GetAnalysis)
	e.GET("/api/sims/:id/best-options", h.GetBestOptions)
	e.POST("/api/sims/:id/whatif", h.WhatIf)

	// Action endpoint
	e.POST("/api/actions", h.DispatchAction)
}
