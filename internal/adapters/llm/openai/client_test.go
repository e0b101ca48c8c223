package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/randomtoy/raas-go/internal/adapters/llm/openai"
	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
)

func testInput() ports.GenerateInput {
	return ports.GenerateInput{
		Model:       "gpt-4o-mini",
		Temperature: 0.8,
		MaxTokens:   800,
		Messages: []ports.Message{
			{Role: "system", Content: "You are Luna, a tarot reader."},
			{Role: "user", Content: "What lies ahead?"},
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("bad auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("bad content-type: %s", r.Header.Get("Content-Type"))
		}

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)

		resp := map[string]any{
			"model": "gpt-4o-mini-2024",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  A cohesive reading.  "}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "test-key", srv.URL, slog.Default())

	out, err := client.Generate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Text != "A cohesive reading." {
		t.Errorf("unexpected text: %q", out.Text)
	}
	if out.Model != "gpt-4o-mini-2024" {
		t.Errorf("unexpected model: %s", out.Model)
	}

	if gotReq["model"] != "gpt-4o-mini" {
		t.Errorf("request model: %v", gotReq["model"])
	}
	if gotReq["temperature"] != 0.8 {
		t.Errorf("request temperature: %v", gotReq["temperature"])
	}
	if gotReq["max_tokens"] != float64(800) {
		t.Errorf("request max_tokens: %v", gotReq["max_tokens"])
	}
	msgs, ok := gotReq["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 messages in request, got %v", gotReq["messages"])
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, slog.Default())

	_, err := client.Generate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Fatalf("expected ErrUpstreamLLM, got %v", err)
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, slog.Default())

	_, err := client.Generate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Fatalf("expected ErrUpstreamLLM, got %v", err)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	httpClient := &http.Client{Timeout: 50 * time.Millisecond}
	client := openai.NewClient(httpClient, "key", srv.URL, slog.Default())

	_, err := client.Generate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Fatalf("expected ErrUpstreamLLM on timeout, got %v", err)
	}
}
