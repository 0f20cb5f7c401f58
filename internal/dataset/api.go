package dataset

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the dataset module
type Handler struct {
	data *Dataset
}

// NewHandler creates a new dataset handler
func NewHandler(data *Dataset) *Handler {
	return &Handler{data: data}
}

// Routes registers the dataset routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.Summary)

	return r
}

// Summary returns the statistics of the loaded history
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.data.Summary())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
