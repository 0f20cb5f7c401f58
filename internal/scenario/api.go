package scenario

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the scenario selector
type Handler struct{}

// NewHandler creates a new scenario handler
func NewHandler() *Handler {
	return &Handler{}
}

// Routes registers the scenario routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/ranges", h.InputRanges)
	r.Get("/{name}", h.Get)

	return r
}

// List returns all scenarios in code order
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles := All()
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  profiles,
		"total": len(profiles),
	})
}

// Get returns the defaults of one scenario. Unknown names resolve to Normal
// and are reported with known=false.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	_, known := Lookup(name)

	writeJSON(w, http.StatusOK, map[string]any{
		"requested": name,
		"known":     known,
		"profile":   Defaults(name),
	})
}

// InputRanges returns the declared bounds of each scenario input
func (h *Handler) InputRanges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ranges())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
