package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/perigon/coding-guidelines-rag/internal/rag"
)

type Handler struct {
	ragService *rag.Service
}

func NewHandler(ragService *rag.Service) *Handler {
	return &Handler{ragService: ragService}
}

type healthResponse struct {
	Status     string          `json:"status"`
	IndexStats *rag.IndexStats `json:"indexStats"`
}

// Health always answers 200; whether the index is reachable lives in the
// body, not the status code.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	healthy, stats := h.ragService.Health(r.Context())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: status, IndexStats: stats})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req rag.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}

	resp, err := h.ragService.Generate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Generation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'q' is required", "")
		return
	}

	maxResults := rag.DefaultSearchResults
	if raw := r.URL.Query().Get("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxResults = n
		}
	}

	results := h.ragService.Search(r.Context(), query, maxResults)
	writeJSON(w, http.StatusOK, rag.SearchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
