package pipeline

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pitie-urgences/forecast/internal/shared/errors"
)

// Handler provides HTTP handlers for forecast runs
type Handler struct {
	engine *Engine
}

// NewHandler creates a new forecast handler
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Routes registers the forecast routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Run)
	r.Get("/", h.RunDefaults)

	return r
}

// Run executes a forecast for the posted request
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	h.run(w, r, req)
}

// RunDefaults executes a forecast with the defaults of ?scenario=
func (h *Handler) RunDefaults(w http.ResponseWriter, r *http.Request) {
	req := Request{Scenario: r.URL.Query().Get("scenario")}
	if v := r.URL.Query().Get("simulate"); v != "" {
		simulate, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.BadRequest("invalid simulate parameter"))
			return
		}
		req.ForceSimulation = simulate
	}

	h.run(w, r, req)
}

// Model returns the model status
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.ModelStatus())
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, req Request) {
	report, err := h.engine.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
