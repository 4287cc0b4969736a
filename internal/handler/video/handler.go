package video

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	videoService "github.com/ethicallogix/hasi/internal/service/video"
	"github.com/ethicallogix/hasi/pkg/utils"
)

// Handler exposes direct video search over HTTP.
type Handler struct {
	searcher   *videoService.Searcher
	maxResults int
}

// New creates the video handler.
func New(searcher *videoService.Searcher, maxResults int) *Handler {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Handler{searcher: searcher, maxResults: maxResults}
}

// RegisterRoutes mounts the video search endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/search-videos", h.handleSearch)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query string `json:"query"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query := strings.TrimSpace(payload.Query)
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "Search query required")
		return
	}

	videos := h.searcher.Search(r.Context(), query, h.maxResults)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"videos": videos,
		"count":  len(videos),
	})
}
