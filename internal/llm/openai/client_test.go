package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/timetable-import/internal/llm"
)

func newTestServer(t *testing.T, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": reply}}},
		})
	}))
}

func TestReadScheduleWithImage(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, "```json\n[]\n```", &seen)
	defer srv.Close()

	img := filepath.Join(t.TempDir(), "week.png")
	if err := os.WriteFile(img, []byte("\x89PNG fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	got, err := c.ReadSchedule(context.Background(), llmRequest(img, ""))
	if err != nil {
		t.Fatalf("ReadSchedule: %v", err)
	}
	if got != "```json\n[]\n```" {
		t.Errorf("reply = %q", got)
	}
	if seen["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", seen["model"])
	}
	b, _ := json.Marshal(seen["messages"])
	if !strings.Contains(string(b), "data:image/png;base64,") {
		t.Error("request does not carry the image as a data URL")
	}
}

func TestReadScheduleTextOnly(t *testing.T) {
	var seen map[string]any
	srv := newTestServer(t, "[]", &seen)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/"}, nil)
	if _, err := c.ReadSchedule(context.Background(), llmRequest("", "Mon 09:00-10:00 CS101")); err != nil {
		t.Fatalf("ReadSchedule: %v", err)
	}
	b, _ := json.Marshal(seen["messages"])
	if !strings.Contains(string(b), "CS101") || strings.Contains(string(b), "image_url") {
		t.Errorf("unexpected messages: %s", b)
	}
}

func TestReadScheduleErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	if _, err := c.ReadSchedule(context.Background(), llmRequest("", "x")); err == nil {
		t.Error("expected error on 502")
	}
	if _, err := c.ReadSchedule(context.Background(), llmRequest("", "")); err == nil {
		t.Error("expected error with no input")
	}
	if _, err := c.ReadSchedule(context.Background(), llmRequest("week.gif", "")); err == nil {
		t.Error("expected error for unsupported image type")
	}
}

func llmRequest(image, text string) llm.VisionRequest {
	return llm.VisionRequest{ImagePath: image, OCRText: text}
}
