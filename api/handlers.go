package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wattweaver/internal/allocation"
	"wattweaver/internal/auth"
	"wattweaver/internal/carbon"
	"wattweaver/internal/export"
	"wattweaver/internal/forecast"
	"wattweaver/internal/history"
	"wattweaver/internal/region"
	"wattweaver/internal/sensitivity"
	"wattweaver/internal/weather"
	"wattweaver/pkg/api"
)

const anonymousOwner = "anonymous"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "wattweaver-api",
		"version": version,
		"uptime":  time.Since(startTime).String(),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReadiness reports whether backing stores are reachable. In-memory
// stores are always ready.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.runs.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "run history store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version})
}

// ---------------------------------------------------------------------------
// Auth

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	user, err := s.authSvc.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if errors.Is(err, auth.ErrUserExists) {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("register failed")
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID.String(),
		"email": user.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"email": user.Email,
	})
}

// ---------------------------------------------------------------------------
// Core endpoints

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": region.Names()})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	regionName := r.URL.Query().Get("region")
	method, _ := forecast.ParseMethod(r.URL.Query().Get("method"))
	points := forecast.Generate(method, regionName)
	writeJSON(w, http.StatusOK, map[string]any{
		"region":   regionName,
		"method":   method.String(),
		"forecast": points,
	})
}

// handleLiveForecast maps live weather onto an availability series. The
// simulate endpoint stays on the synthetic generator; this series is a
// comparison aid and input for external tooling.
func (s *Server) handleLiveForecast(w http.ResponseWriter, r *http.Request) {
	regionName := r.URL.Query().Get("region")
	if _, ok := weather.RegionCoordinates[regionName]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("no coordinates for region %q", regionName))
		return
	}

	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed < 1 || parsed > 168 {
			writeError(w, http.StatusBadRequest, "hours must be an integer in [1,168]")
			return
		}
		hours = parsed
	}

	raw, err := s.weather.ForecastForRegion(r.Context(), regionName, hours)
	if err != nil {
		log.Error().Err(err).Str("region", regionName).Msg("live weather fetch failed")
		writeError(w, http.StatusBadGateway, "weather data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region":   regionName,
		"forecast": weather.ToForecast(raw, regionName),
	})
}

func (s *Server) handleCarbonIntensity(w http.ResponseWriter, r *http.Request) {
	params := allocation.DefaultParams()
	table := carbon.Table(
		params[allocation.Solar].EmissionPerMWh,
		params[allocation.Wind].EmissionPerMWh,
		params[allocation.Hydro].EmissionPerMWh,
	)
	writeJSON(w, http.StatusOK, map[string]any{"intensity": table})
}

// validateSimulateRequest enforces the boundary contract before the core
// runs: cost weight in [0,1] and a non-empty focus drawn from the renewable
// sources.
func validateSimulateRequest(req *api.SimulateRequest) error {
	if req.CostWeight < 0 || req.CostWeight > 1 {
		return fmt.Errorf("costWeight must be in [0,1], got %v", req.CostWeight)
	}
	if len(req.EnergyFocus) == 0 {
		return fmt.Errorf("energyFocus must not be empty")
	}
	for _, f := range req.EnergyFocus {
		switch f {
		case "solar", "wind", "hydro":
		default:
			return fmt.Errorf("unknown energy focus %q", f)
		}
	}
	return nil
}

func (s *Server) runSimulation(req api.SimulateRequest) (*api.SimulateResponse, forecast.Method, error) {
	method, _ := forecast.ParseMethod(req.Method)
	points := forecast.Generate(method, req.Region)
	resp, err := allocation.Optimize(points, allocation.Config{
		Region:            req.Region,
		Method:            method.String(),
		EnergyFocus:       allocation.NewFocus(req.EnergyFocus),
		CostWeight:        req.CostWeight,
		TimeVaryingCarbon: req.TimeVaryingCarbon,
	})
	return resp, method, err
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req api.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateSimulateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp, method, err := s.runSimulation(req)
	if errors.Is(err, allocation.ErrNoDemand) {
		runFailures.Inc()
		writeError(w, http.StatusUnprocessableEntity, "no demand to allocate")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("simulation failed")
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}
	runDuration.Observe(time.Since(start).Seconds())
	runsTotal.WithLabelValues(req.Region, method.String()).Inc()

	owner := anonymousOwner
	if claims, ok := s.claimsFromRequest(r); ok {
		owner = claims.UserID.String()
	}
	rec := history.NewRecord(owner, req, resp)
	if err := s.runs.Save(r.Context(), rec); err != nil {
		// History is best-effort; the run result is still returned.
		log.Error().Err(err).Str("run_id", rec.ID.String()).Msg("failed to persist run")
	}

	writeJSON(w, http.StatusOK, resp)
}

type sensitivityRequest struct {
	api.SimulateRequest
	Multipliers []float64 `json:"multipliers,omitempty"`
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateSimulateRequest(&req.SimulateRequest); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	method, _ := forecast.ParseMethod(req.Method)
	points := forecast.Generate(method, req.Region)
	resp, err := runSensitivity(points, req)
	if errors.Is(err, allocation.ErrNoDemand) {
		runFailures.Inc()
		writeError(w, http.StatusUnprocessableEntity, "no demand to allocate")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("sensitivity analysis failed")
		writeError(w, http.StatusInternalServerError, "sensitivity analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func runSensitivity(points []api.ForecastPoint, req sensitivityRequest) (*api.SensitivityResponse, error) {
	return sensitivity.Run(points, allocation.Config{
		Region:            req.Region,
		EnergyFocus:       allocation.NewFocus(req.EnergyFocus),
		CostWeight:        req.CostWeight,
		TimeVaryingCarbon: req.TimeVaryingCarbon,
	}, req.Multipliers)
}

// ---------------------------------------------------------------------------
// Run history

type runSummary struct {
	ID          string    `json:"id"`
	Region      string    `json:"region"`
	Method      string    `json:"method"`
	EnergyFocus []string  `json:"energyFocus"`
	CostWeight  float64   `json:"costWeight"`
	Results     struct {
		Optimized api.ScenarioMetrics `json:"optimized"`
		Baseline  api.ScenarioMetrics `json:"baseline"`
	} `json:"results"`
	CreatedAt time.Time `json:"createdAt"`
}

func summarize(rec *history.Record) runSummary {
	var s runSummary
	s.ID = rec.ID.String()
	s.Region = rec.Region
	s.Method = rec.Method
	s.EnergyFocus = rec.EnergyFocus
	s.CostWeight = rec.CostWeight
	s.Results.Optimized = api.ScenarioMetrics{
		Cost:           rec.OptimizedCost.InexactFloat64(),
		Emissions:      rec.OptimizedEmissions.InexactFloat64(),
		Reliability:    rec.OptimizedReliability,
		RenewableShare: rec.OptimizedRenewableShare,
	}
	s.Results.Baseline = api.ScenarioMetrics{
		Cost:           rec.BaselineCost.InexactFloat64(),
		Emissions:      rec.BaselineEmissions.InexactFloat64(),
		Reliability:    rec.BaselineReliability,
		RenewableShare: rec.BaselineRenewableShare,
	}
	s.CreatedAt = rec.CreatedAt
	return s
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	records, err := s.runs.List(r.Context(), claims.UserID.String(), 50)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	summaries := make([]runSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

func (s *Server) getOwnedRun(w http.ResponseWriter, r *http.Request) *history.Record {
	claims := claimsFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return nil
	}
	rec, err := s.runs.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("get run failed")
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return nil
	}
	if rec == nil || rec.Owner != claims.UserID.String() {
		writeError(w, http.StatusNotFound, "run not found")
		return nil
	}
	return rec
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec := s.getOwnedRun(w, r)
	if rec == nil {
		return
	}
	writeJSON(w, http.StatusOK, summarize(rec))
}

// handleExportRun replays the stored run (generation is deterministic, so
// the series are reproduced exactly) and streams the requested series as CSV.
func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	rec := s.getOwnedRun(w, r)
	if rec == nil {
		return
	}

	resp, _, err := s.runSimulation(api.SimulateRequest{
		Region:      rec.Region,
		Method:      rec.Method,
		EnergyFocus: rec.EnergyFocus,
		CostWeight:  rec.CostWeight,
	})
	if err != nil {
		log.Error().Err(err).Msg("export replay failed")
		writeError(w, http.StatusInternalServerError, "failed to replay run")
		return
	}

	series := r.URL.Query().Get("series")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.csv", series, rec.ID))
	switch series {
	case "price":
		err = export.WritePrices(w, resp.PriceData)
	default:
		err = export.WriteEnergyMix(w, resp.EnergyMixData)
	}
	if err != nil {
		log.Error().Err(err).Msg("csv export failed")
	}
}
