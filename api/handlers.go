package api

import (
	"encoding/json"
	"net/http"

	"parshealth.com/triage/pipeline"
	"parshealth.com/triage/types"
)

// Handler exposes the triage service over HTTP. Wire format follows
// the intake frontend contract: a flat assessment with a nested
// referral object.
type Handler struct {
	Service *pipeline.Service
}

type TriageResponse struct {
	RiskScore float64         `json:"risk_score"`
	RiskLabel types.RiskLabel `json:"risk_label"`
	Details   string          `json:"details"`
	Referral  *types.Referral `json:"referral,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Health)
	mux.HandleFunc("/predict", h.Predict)
	mux.HandleFunc("/self-check-in", h.SelfCheckIn)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"model_loaded": h.Service.ModelLoaded(),
	})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.Service.ModelLoaded() {
		logger.Error().Int("status", http.StatusServiceUnavailable).Msg("Scoring model is not loaded")
		writeError(w, http.StatusServiceUnavailable, "Model not loaded. Place model artifacts in the resource directory.")
		return
	}

	var vitals types.PatientVitals
	if err := json.NewDecoder(r.Body).Decode(&vitals); err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not decode request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vitals.ApplyDefaults()
	if err := vitals.Validate(); err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Rejected invalid vitals record")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info().Msg("Starting triage pipeline for API request")
	result := h.Service.Process(r.Context(), pipeline.Request{
		Tid:    "api",
		Vitals: vitals,
	})
	if result.Err != nil {
		logger.Err(result.Err).Int("status", http.StatusInternalServerError).Msg("Triage pipeline failed")
		writeError(w, http.StatusInternalServerError, "triage failed")
		return
	}

	writeResult(w, result)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func (h *Handler) SelfCheckIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var checkIn pipeline.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&checkIn); err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not decode request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.Service.SelfCheckIn(r.Context(), checkIn)
	writeResult(w, result)
	logger.Info().Int("status", http.StatusOK).Msg("Finished self check-in")
}

func writeResult(w http.ResponseWriter, result pipeline.Result) {
	referral := result.Referral
	writeJSON(w, http.StatusOK, TriageResponse{
		RiskScore: result.Assessment.RiskScore,
		RiskLabel: result.Assessment.RiskLabel,
		Details:   result.Assessment.Details,
		Referral:  &referral,
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
