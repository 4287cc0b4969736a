package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	chatService "github.com/ethicallogix/hasi/internal/service/chat"
	videoService "github.com/ethicallogix/hasi/internal/service/video"
	"github.com/ethicallogix/hasi/internal/storage"
)

type stubCompleter struct{}

func (stubCompleter) Complete(context.Context, string) (string, error) {
	return "stub reply", nil
}

type stubProvider struct{}

func (stubProvider) Search(_ context.Context, query string, max int) []videoService.Video {
	return videoService.Fallback(query, max)
}

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "conversations.json"))
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	orchestrator := chatService.NewOrchestrator(store, stubProvider{}, stubCompleter{}, 3)
	handler := New(orchestrator)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func getJSON(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatEndpoint(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/chat", map[string]string{"message": "hello there"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["response"] != "stub reply" {
		t.Fatalf("unexpected response text: %q", body["response"])
	}
	if body["timestamp"] == "" {
		t.Fatal("expected a timestamp")
	}
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/chat", map[string]string{"message": "  "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatEndpointInvalidBody(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	r := setupRouter(t)
	postJSON(t, r, "/chat", map[string]string{"message": "hello"})

	resp := getJSON(t, r, "/history")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		History []map[string]any `json:"history"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.History) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(body.History))
	}
}

func TestLoadSessionNotFound(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/load-session", map[string]int{"session_id": 42})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLoadSessionMissingID(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/load-session", map[string]int{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLoadSessionRoundTrip(t *testing.T) {
	r := setupRouter(t)
	postJSON(t, r, "/chat", map[string]string{"message": "first session"})
	postJSON(t, r, "/new-session", nil)

	resp := postJSON(t, r, "/load-session", map[string]int{"session_id": 1})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Success bool             `json:"success"`
		History []map[string]any `json:"history"`
		Message string           `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.History) != 2 || body.Message != "Loaded session 1" {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestNewSessionEndpoint(t *testing.T) {
	r := setupRouter(t)

	resp := postJSON(t, r, "/new-session", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success, got %+v", body)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	r := setupRouter(t)
	postJSON(t, r, "/chat", map[string]string{"message": "hello"})

	resp := getJSON(t, r, "/sessions")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Sessions []struct {
			IsCurrent bool `json:"is_current"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Sessions) != 1 || !body.Sessions[0].IsCurrent {
		t.Fatalf("unexpected sessions payload: %+v", body)
	}
}

func TestAllConversationsEndpoint(t *testing.T) {
	r := setupRouter(t)
	postJSON(t, r, "/chat", map[string]string{"message": "hello"})

	resp := getJSON(t, r, "/all-conversations")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"sessions", "current_session", "statistics"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %q in document", key)
		}
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	r := setupRouter(t)
	postJSON(t, r, "/chat", map[string]string{"message": "hello"})

	resp := getJSON(t, r, "/statistics")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		TotalMessages          int `json:"total_messages"`
		CurrentSessionMessages int `json:"current_session_messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.TotalMessages != 2 || body.CurrentSessionMessages != 2 {
		t.Fatalf("unexpected statistics: %+v", body)
	}
}
