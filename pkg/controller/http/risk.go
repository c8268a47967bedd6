package http

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/service/fair"
	"github.com/secmon-lab/tyche/pkg/service/report"
	"github.com/secmon-lab/tyche/pkg/utils/errutil"
	"github.com/secmon-lab/tyche/pkg/utils/safe"
)

// Simulation range defaults applied when a request leaves a bound
// unspecified
const (
	defaultTEFMin  = 1.0
	defaultTEFMax  = 10.0
	defaultVulnMin = 0.1
	defaultVulnMax = 0.9
	defaultLossMin = 10000.0
	defaultLossMax = 100000.0
)

type calculateRequest struct {
	Name                 string  `json:"name"`
	AssetValue           float64 `json:"asset_value"`
	ThreatEventFrequency float64 `json:"threat_event_frequency"`
	Vulnerability        float64 `json:"vulnerability"`
	LossMagnitude        float64 `json:"loss_magnitude"`
}

func (x *calculateRequest) toInput() model.RiskInput {
	return model.RiskInput{
		AssetValue:           x.AssetValue,
		ThreatEventFrequency: x.ThreatEventFrequency,
		Vulnerability:        x.Vulnerability,
		LossMagnitude:        x.LossMagnitude,
	}
}

type riskMetricsResponse struct {
	AssetValue           float64 `json:"asset_value"`
	ThreatEventFrequency float64 `json:"threat_event_frequency"`
	Vulnerability        float64 `json:"vulnerability"`
	LossMagnitude        float64 `json:"loss_magnitude"`

	LossEventFrequency     float64 `json:"loss_event_frequency"`
	SingleLossExpectancy   float64 `json:"single_loss_expectancy"`
	AnnualLossExpectancy   float64 `json:"annual_loss_expectancy"`
	RiskLevel              string  `json:"risk_level"`
	RiskColor              string  `json:"risk_color"`
	RiskPriority           string  `json:"risk_priority"`
	RiskExposurePercentage float64 `json:"risk_exposure_percentage"`
}

func toMetricsResponse(m model.RiskMetrics) riskMetricsResponse {
	return riskMetricsResponse{
		AssetValue:           m.AssetValue,
		ThreatEventFrequency: m.ThreatEventFrequency,
		Vulnerability:        m.Vulnerability,
		LossMagnitude:        m.LossMagnitude,

		LossEventFrequency:     m.LossEventFrequency,
		SingleLossExpectancy:   m.SingleLossExpectancy,
		AnnualLossExpectancy:   m.AnnualLossExpectancy,
		RiskLevel:              m.RiskLevel.String(),
		RiskColor:              m.RiskLevel.Color(),
		RiskPriority:           m.RiskLevel.Priority(),
		RiskExposurePercentage: m.RiskExposurePercentage,
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body", goerr.T(types.TagInvalidArgument)), http.StatusBadRequest)
		return
	}

	assessment, err := s.uc.Risk.Assess(ctx, req.Name, req.toInput())
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"assessment_id": assessment.ID,
		"results":       toMetricsResponse(assessment.Metrics),
	})
}

type monteCarloRequest struct {
	AssetValue float64  `json:"asset_value"`
	TEFMin     *float64 `json:"tef_min"`
	TEFMax     *float64 `json:"tef_max"`
	VulnMin    *float64 `json:"vuln_min"`
	VulnMax    *float64 `json:"vuln_max"`
	LossMin    *float64 `json:"loss_min"`
	LossMax    *float64 `json:"loss_max"`
	Iterations *int     `json:"iterations"`
	Seed       *uint64  `json:"seed"`
}

func (x *monteCarloRequest) toInput(defaultIterations int) model.SimulationInput {
	return model.SimulationInput{
		AssetValue:           x.AssetValue,
		ThreatEventFrequency: model.Interval{Min: orDefault(x.TEFMin, defaultTEFMin), Max: orDefault(x.TEFMax, defaultTEFMax)},
		Vulnerability:        model.Interval{Min: orDefault(x.VulnMin, defaultVulnMin), Max: orDefault(x.VulnMax, defaultVulnMax)},
		LossMagnitude:        model.Interval{Min: orDefault(x.LossMin, defaultLossMin), Max: orDefault(x.LossMax, defaultLossMax)},
		Iterations:           orDefaultInt(x.Iterations, defaultIterations),
	}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orDefaultInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

type percentilesResponse struct {
	P10 float64 `json:"10th"`
	P25 float64 `json:"25th"`
	P50 float64 `json:"50th"`
	P75 float64 `json:"75th"`
	P90 float64 `json:"90th"`
	P95 float64 `json:"95th"`
	P99 float64 `json:"99th"`
}

type simulationResponse struct {
	Iterations int     `json:"iterations"`
	MeanALE    float64 `json:"mean_ale"`
	MedianALE  float64 `json:"median_ale"`
	StdDev     float64 `json:"std_dev"`
	MinALE     float64 `json:"min_ale"`
	MaxALE     float64 `json:"max_ale"`

	Percentiles      percentilesResponse `json:"percentiles"`
	RiskDistribution struct {
		Low      int `json:"low"`
		Medium   int `json:"medium"`
		High     int `json:"high"`
		Critical int `json:"critical"`
	} `json:"risk_distribution"`
	Confidence95 struct {
		Lower float64 `json:"lower"`
		Upper float64 `json:"upper"`
	} `json:"confidence_95"`
}

func toSimulationResponse(r *model.SimulationResult) simulationResponse {
	resp := simulationResponse{
		Iterations: r.Iterations,
		MeanALE:    r.MeanALE,
		MedianALE:  r.MedianALE,
		StdDev:     r.StdDev,
		MinALE:     r.MinALE,
		MaxALE:     r.MaxALE,
		Percentiles: percentilesResponse{
			P10: r.Percentiles.P10,
			P25: r.Percentiles.P25,
			P50: r.Percentiles.P50,
			P75: r.Percentiles.P75,
			P90: r.Percentiles.P90,
			P95: r.Percentiles.P95,
			P99: r.Percentiles.P99,
		},
	}
	resp.RiskDistribution.Low = r.RiskDistribution.Low
	resp.RiskDistribution.Medium = r.RiskDistribution.Medium
	resp.RiskDistribution.High = r.RiskDistribution.High
	resp.RiskDistribution.Critical = r.RiskDistribution.Critical
	resp.Confidence95.Lower = r.Confidence95.Lower
	resp.Confidence95.Upper = r.Confidence95.Upper
	return resp
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req monteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body", goerr.T(types.TagInvalidArgument)), http.StatusBadRequest)
		return
	}

	var opts []fair.SimulateOption
	if req.Seed != nil {
		opts = append(opts, fair.WithSeed(*req.Seed))
	}

	result, err := s.uc.Simulation.Run(ctx, req.toInput(s.uc.Simulation.DefaultIterations()), opts...)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"simulation": toSimulationResponse(result),
	})
}

type generateReportRequest struct {
	calculateRequest
	Simulation *monteCarloRequest `json:"simulation"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body", goerr.T(types.TagInvalidArgument)), http.StatusBadRequest)
		return
	}

	// The report always recomputes server-side rather than trusting
	// client-supplied numbers
	assessment, err := s.uc.Risk.Assess(ctx, req.Name, req.toInput())
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	data := &report.Data{
		Metrics:     &assessment.Metrics,
		GeneratedAt: time.Now(),
	}

	if req.Simulation != nil {
		var opts []fair.SimulateOption
		if req.Simulation.Seed != nil {
			opts = append(opts, fair.WithSeed(*req.Simulation.Seed))
		}
		simResult, err := s.uc.Simulation.Run(ctx, req.Simulation.toInput(s.uc.Simulation.DefaultIterations()), opts...)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}
		data.Simulation = simResult
	}

	path, err := s.uc.Report.Generate(ctx, data)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to open generated report", goerr.V("path", path)), http.StatusInternalServerError)
		return
	}
	defer safe.Close(ctx, f)

	w.Header().Set("Content-Disposition", `attachment; filename="risk_assessment_report.pdf"`)
	w.Header().Set("Content-Type", "application/pdf")
	safe.Copy(ctx, w, f)
}

type assessmentResponse struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	Results   riskMetricsResponse `json:"results"`
}

func toAssessmentResponse(a *model.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		Results:   toMetricsResponse(a.Metrics),
	}
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assessments, err := s.uc.Risk.ListAssessments(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := make([]assessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		resp = append(resp, toAssessmentResponse(a))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"assessments": resp,
	})
}

func parseAssessmentID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid assessment ID", goerr.T(types.TagInvalidArgument))
	}
	return id, nil
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseAssessmentID(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	assessment, err := s.uc.Risk.GetAssessment(ctx, id)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"assessment": toAssessmentResponse(assessment),
	})
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseAssessmentID(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	if err := s.uc.Risk.DeleteAssessment(ctx, id); err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
