package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	chatService "github.com/ethicallogix/hasi/internal/service/chat"
	"github.com/ethicallogix/hasi/pkg/utils"
)

// Handler exposes the conversation orchestrator over HTTP.
type Handler struct {
	orchestrator *chatService.Orchestrator
}

// New creates the chat handler.
func New(orchestrator *chatService.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// RegisterRoutes mounts the conversation endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/history", h.handleHistory)
	r.Get("/sessions", h.handleSessions)
	r.Post("/load-session", h.handleLoadSession)
	r.Post("/new-session", h.handleNewSession)
	r.Get("/statistics", h.handleStatistics)
	r.Get("/all-conversations", h.handleAllConversations)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Empty message")
		return
	}

	response, err := h.orchestrator.Chat(r.Context(), payload.Message)
	if err != nil {
		if errors.Is(err, chatService.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, "Empty message")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"response":  response,
		"timestamp": time.Now().Format("15:04"),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"history": h.orchestrator.History(),
	})
}

func (h *Handler) handleSessions(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions": h.orchestrator.Sessions(),
	})
}

func (h *Handler) handleLoadSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID int `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "Session ID required")
		return
	}

	if !h.orchestrator.LoadSession(payload.SessionID) {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": h.orchestrator.History(),
		"message": fmt.Sprintf("Loaded session %d", payload.SessionID),
	})
}

func (h *Handler) handleNewSession(w http.ResponseWriter, _ *http.Request) {
	h.orchestrator.NewSession()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "New session started",
	})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.orchestrator.Stats())
}

func (h *Handler) handleAllConversations(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.orchestrator.Document())
}
