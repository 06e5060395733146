package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/classifier"
	"github.com/Krimson/babybloom/predictor/internal/contact"
	"github.com/Krimson/babybloom/predictor/internal/features"
	"github.com/Krimson/babybloom/predictor/internal/metrics"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 32 << 20
)

// HTTPHandler serves the JSON API.
type HTTPHandler struct {
	contact *contact.Service
	logger  *slog.Logger
}

func NewHTTPHandler(contactService *contact.Service, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{
		contact: contactService,
		logger:  logger,
	}
}

// RegisterRoutes mounts the API under /api/v1 and the health probe at /healthz.
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/predict", h.Predict).Methods("POST")
	api.HandleFunc("/strategies", h.ListStrategies).Methods("GET")
	api.HandleFunc("/advice", h.GetAdvice).Methods("GET")
	api.HandleFunc("/features/contractions", h.ExtractContractions).Methods("POST")
	api.HandleFunc("/contact", h.SubmitContact).Methods("POST")
}

// PredictResponse is the classification result with its advice.
type PredictResponse struct {
	ID         string            `json:"id"`
	Result     classifier.Result `json:"result"`
	Label      string            `json:"label"`
	Advice     advice.Advice     `json:"advice"`
	Disclaimer string            `json:"disclaimer"`
}

// StrategyInfo describes a registered classification strategy.
type StrategyInfo struct {
	Name                 string `json:"name"`
	RequiresContractions bool   `json:"requiresContractions"`
}

// ContactResponse confirms an accepted contact message.
type ContactResponse struct {
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string               `json:"error"`
	Details string               `json:"details,omitempty"`
	Status  int                  `json:"status"`
	Field   string               `json:"field,omitempty"`
	Fields  []contact.FieldError `json:"fields,omitempty"`
}

// Predict classifies a measurement record
// @Summary Classify a measurement record
// @Description Estimates gestational age and flags preterm birth. The strategy is chosen from the supplied fields unless the strategy query parameter names one.
// @Tags Prediction
// @Accept json
// @Produce json
// @Param strategy query string false "basic or contraction-aware"
// @Param request body classifier.Input true "Measurement record"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/predict [post]
func (h *HTTPHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var in classifier.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	var strategy classifier.Strategy
	if name := r.URL.Query().Get("strategy"); name != "" {
		s, err := classifier.Lookup(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Unknown strategy", err.Error())
			return
		}
		strategy = s
	}

	m, err := in.Measurement()
	if err != nil {
		h.respondValidation(w, err)
		return
	}

	res, err := classifier.Classify(m, strategy)
	if err != nil {
		h.respondValidation(w, err)
		return
	}

	metrics.RecordPrediction(res.Strategy, res.IsPreterm, res.Rule.String(), res.Confidence)

	resp := PredictResponse{
		ID:         uuid.NewString(),
		Result:     res,
		Label:      res.Label(),
		Advice:     advice.For(res.IsPreterm),
		Disclaimer: advice.Disclaimer,
	}
	h.logger.DebugContext(r.Context(), "prediction completed",
		"id", resp.ID,
		"strategy", res.Strategy,
		"preterm", res.IsPreterm,
		"rule", res.Rule.String(),
	)

	respondJSON(w, http.StatusOK, resp)
}

// ListStrategies lists the classification strategies
// @Summary List strategies
// @Tags Prediction
// @Produce json
// @Success 200 {array} StrategyInfo
// @Router /api/v1/strategies [get]
func (h *HTTPHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := classifier.Strategies()
	out := make([]StrategyInfo, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, StrategyInfo{Name: s.Name(), RequiresContractions: s.RequiresContractions()})
	}
	respondJSON(w, http.StatusOK, out)
}

// GetAdvice returns the assistant advice for an outcome
// @Summary Get advice for an outcome
// @Tags Prediction
// @Produce json
// @Param preterm query bool true "Preterm outcome"
// @Success 200 {object} advice.Advice
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/advice [get]
func (h *HTTPHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("preterm")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "preterm parameter is required", "")
		return
	}
	preterm, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "preterm must be true or false", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, advice.For(preterm))
}

// ExtractContractions derives contraction statistics from a trace
// @Summary Extract contraction statistics
// @Description Computes contractionCount, contractionLength, std and entropy from a uterine activity trace.
// @Description Accepts either a JSON trace or a multipart upload of a time_sec,value CSV file (uc_file) with an optional sample_rate.
// @Tags Features
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body features.Trace false "Uterine activity trace"
// @Param uc_file formData file false "CSV file with uterine contraction data"
// @Param sample_rate formData number false "Sample rate in Hz, inferred from the time column when omitted"
// @Success 200 {object} classifier.ContractionStats
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/features/contractions [post]
func (h *HTTPHandler) ExtractContractions(w http.ResponseWriter, r *http.Request) {
	var (
		trace features.Trace
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		trace, err = readUploadedTrace(r)
	} else {
		err = decodeJSON(w, r, &trace)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	stats, err := features.Extract(trace)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid trace", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// SubmitContact accepts a contact form message
// @Summary Submit a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body contact.Message true "Contact message"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/contact [post]
func (h *HTTPHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := decodeJSON(w, r, &msg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	sub, err := h.contact.Submit(r.Context(), msg)
	if err != nil {
		var ve *contact.ValidationError
		switch {
		case errors.As(err, &ve):
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:  "Invalid contact message",
				Status: http.StatusBadRequest,
				Fields: ve.Fields,
			})
		case errors.Is(err, contact.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, err.Error(), "")
		default:
			h.logger.ErrorContext(r.Context(), "failed to submit contact message", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to submit message", "")
		}
		return
	}

	respondJSON(w, http.StatusCreated, ContactResponse{
		TicketID: sub.TicketID,
		Message:  contact.ConfirmationText,
	})
}

// Health reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readUploadedTrace(r *http.Request) (features.Trace, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return features.Trace{}, fmt.Errorf("failed to parse form: %w", err)
	}

	file, _, err := r.FormFile("uc_file")
	if err != nil {
		return features.Trace{}, fmt.Errorf("failed to get UC file: %w", err)
	}
	defer file.Close()

	sampleRate := 0.0
	if raw := r.FormValue("sample_rate"); raw != "" {
		sampleRate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return features.Trace{}, fmt.Errorf("invalid sample_rate: %w", err)
		}
	}

	return features.ReadTrace(file, sampleRate)
}

func (h *HTTPHandler) respondValidation(w http.ResponseWriter, err error) {
	ve, ok := classifier.AsValidationError(err)
	if !ok {
		h.logger.Error("classification failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Classification failed", "")
		return
	}

	metrics.RecordValidationFailure(ve.Field)
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid measurement",
		Details: ve.Error(),
		Status:  http.StatusBadRequest,
		Field:   ve.Field,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
		Status:  status,
	})
}
