// Package server exposes the planning pipeline over an HTTP JSON API. The
// graphical interface is out of scope; the API is the presentation layer's
// integration point.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CarlosBinho/aquaplan/internal/catalog"
	"github.com/CarlosBinho/aquaplan/internal/config"
	"github.com/CarlosBinho/aquaplan/internal/mix"
	"github.com/CarlosBinho/aquaplan/internal/ranking"
	"github.com/CarlosBinho/aquaplan/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the plan API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Plan API endpoint (YAML file upload)
	mux.HandleFunc("/api/plan", h.handlePlan)

	// Plan API endpoint for inline JSON payloads
	mux.HandleFunc("/api/plan/inline", h.handlePlanInline)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type planResponse struct {
	Ranking  []rankingRow     `json:"ranking"`
	Mix      *mix.Solution    `json:"mix,omitempty"`
	Rejects  []catalog.Reject `json:"rejects,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Duration string           `json:"duration"`
}

type rankingRow struct {
	Species           string   `json:"species"`
	Viable            bool     `json:"viable"`
	Reason            string   `json:"reason,omitempty"`
	Bottleneck        string   `json:"bottleneck,omitempty"`
	MaxQuantity       float64  `json:"maxQuantity"`
	Revenue           float64  `json:"revenue"`
	TotalCost         float64  `json:"totalCost"`
	Profit            float64  `json:"profit"`
	MonthlyProfit     float64  `json:"monthlyProfit"`
	ROI               *float64 `json:"roi,omitempty"`
	PaybackMonths     *float64 `json:"paybackMonths,omitempty"`
	BreakEvenQuantity float64  `json:"breakEvenQuantity"`
	BiomassKg         float64  `json:"biomassKg"`
	OccupancyPercent  float64  `json:"occupancyPercent"`
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handlePlan")
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handlePlan")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing plan file", "server.handlePlan")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handlePlan"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read plan: %v", err), "server.handlePlan")
		return
	}

	h.runPlan(w, buf.Bytes(), start, "server.handlePlan")
}

func (h *handler) handlePlanInline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), "server.handlePlanInline")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	planBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode plan: %v", err), "server.handlePlanInline")
		return
	}

	h.runPlan(w, planBytes, start, "server.handlePlanInline")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runPlan(w http.ResponseWriter, planBytes []byte, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(planBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if err := cfg.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	species, rejects, err := loadSpecies(cfg)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if len(species) == 0 {
		h.respondError(w, http.StatusBadRequest, "no valid species in catalog", op)
		return
	}

	rankings := ranking.RankAll(h.logger, species, cfg.Farm)

	optimizer := mix.NewOptimizer(h.logger, nil)
	solution, err := optimizer.Optimize(species, cfg.Farm, mix.Options{IntegerUnits: cfg.Optimizer.IntegerUnits})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to optimize mix: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := planResponse{
		Ranking:  buildRankingRows(rankings),
		Mix:      &solution,
		Rejects:  rejects,
		Warnings: warnings,
		Duration: elapsed.String(),
	}

	h.logger.Info("plan computed",
		zap.String("op", op),
		zap.Int("species", len(species)),
		zap.String("mixStatus", string(solution.Status)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func loadSpecies(cfg *config.Configuration) ([]catalog.SpeciesRecord, []catalog.Reject, error) {
	if len(cfg.Species) > 0 {
		records, rejects := catalog.Normalize(cfg.Species)
		return records, rejects, nil
	}
	return catalog.Load(cfg.Catalog.Path)
}

func buildRankingRows(results []ranking.Result) []rankingRow {
	rows := make([]rankingRow, 0, len(results))
	for _, result := range results {
		row := rankingRow{
			Species:           result.Species,
			Viable:            result.Viable,
			Reason:            result.Reason,
			MaxQuantity:       result.MaxQuantity,
			Revenue:           result.Revenue,
			TotalCost:         result.TotalCost,
			Profit:            result.Profit,
			MonthlyProfit:     result.MonthlyProfit,
			BreakEvenQuantity: result.BreakEvenQuantity,
			BiomassKg:         result.BiomassKg,
			OccupancyPercent:  result.OccupancyPercent,
		}
		if result.Viable {
			row.Bottleneck = string(result.Bottleneck)
		}
		if result.ROIDefined {
			roi := result.ROI
			row.ROI = &roi
		}
		if !result.PaybackNever && result.Viable {
			payback := result.PaybackMonths
			row.PaybackMonths = &payback
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("plan request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
