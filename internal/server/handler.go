package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/pathway"
)

type errorResponse struct {
	Error string `json:"error"`
}

// scenarioCompareRequest mirrors the simulation request plus the intervention
// sets to evaluate side by side.
type scenarioCompareRequest struct {
	config.SimulationRequest
	Scenarios [][]string `json:"scenarios"`
}

func (s *Server) handleSimulatePathway(c echo.Context) error {
	var req config.SimulationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	parser := config.NewRequestParser(s.params)
	if err := parser.ValidateSimulationRequest(&req); err != nil {
		s.metrics.SimulationsTotal.WithLabelValues("pathway", "rejected").Inc()
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	start := time.Now()
	graph := s.builder.BuildPathway(pathway.BuildInput{
		Profile:            req.Profile,
		Interventions:      req.Interventions,
		HorizonYears:       req.HorizonYears,
		SymptomConditions:  req.SymptomConditions,
		UnmappedConditions: req.UnmappedConditions,
	})
	s.metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	s.metrics.NodesPerGraph.Observe(float64(len(graph.Nodes)))
	s.metrics.SimulationsTotal.WithLabelValues("pathway", "ok").Inc()

	return c.JSON(http.StatusOK, graph)
}

func (s *Server) handleCompareScenarios(c echo.Context) error {
	var req scenarioCompareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	parser := config.NewRequestParser(s.params)
	if err := parser.ValidateSimulationRequest(&req.SimulationRequest); err != nil {
		s.metrics.SimulationsTotal.WithLabelValues("scenarios", "rejected").Inc()
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	set := s.comp.CompareScenarios(pathway.BuildInput{
		Profile:            req.Profile,
		HorizonYears:       req.HorizonYears,
		SymptomConditions:  req.SymptomConditions,
		UnmappedConditions: req.UnmappedConditions,
	}, req.Scenarios)
	s.metrics.SimulationsTotal.WithLabelValues("scenarios", "ok").Inc()

	return c.JSON(http.StatusOK, set)
}

func (s *Server) handleComparePlans(c echo.Context) error {
	var req config.PlanCompareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := req.Profile.Validate(); err != nil {
		s.metrics.SimulationsTotal.WithLabelValues("plans", "rejected").Inc()
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "profile: " + err.Error()})
	}
	if req.HorizonYears == 0 {
		req.HorizonYears = s.params.DefaultHorizonYears
	}
	if req.HorizonYears < 1 {
		s.metrics.SimulationsTotal.WithLabelValues("plans", "rejected").Inc()
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "horizon_years must be at least 1"})
	}
	if len(req.PlanIDs) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "at least one plan id is required"})
	}

	set := s.comp.ComparePlans(pathway.BuildInput{
		Profile:       req.Profile,
		Interventions: req.Interventions,
		HorizonYears:  req.HorizonYears,
	}, req.PlanIDs)
	s.metrics.SimulationsTotal.WithLabelValues("plans", "ok").Inc()

	return c.JSON(http.StatusOK, set)
}

func (s *Server) handleListPlans(c echo.Context) error {
	state := c.QueryParam("state")
	metal := c.QueryParam("metal_level")
	return c.JSON(http.StatusOK, s.data.Plans.Filter(state, metal))
}

func (s *Server) handleListConditions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.data.Registry.All())
}

func (s *Server) handleListInterventions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.data.Interventions.Names())
}
