package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newOpenAICompatible("test-key", server.URL+"/v1", "gpt-4o-mini", openaiModels)
}

func writeOpenAIError(w http.ResponseWriter, status int, typ, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"type":    typ,
			"message": message,
		},
	})
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var gotModel string
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4.1-mini",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": `[{"week":1,"title":"Basics","topics":["a"]}]`,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Model:     "gpt-mini",
		System:    "You are a curriculum designer.",
		Messages:  []Message{{Role: RoleUser, Content: "Generate a roadmap."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "gpt-4.1-mini" {
		t.Fatalf("expected alias resolved to gpt-4.1-mini, got %q", gotModel)
	}
	if resp.Text != `[{"week":1,"title":"Basics","topics":["a"]}]` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-test",
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": `[{"week":1`},
					"finish_reason": "length",
				},
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimitIsFatal(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeOpenAIError(w, http.StatusTooManyRequests, "tokens", "Rate limit exceeded")
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
	if IsTransient(err) {
		t.Fatal("rate limit must be fatal")
	}
}

func TestOpenAIProvider_ServiceUnavailableIsTransient(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeOpenAIError(w, http.StatusServiceUnavailable, "server_error", "overloaded")
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
	if !IsTransient(err) {
		t.Fatal("503 must be transient")
	}
}

func TestOpenAIProvider_ServerErrorIsFatal(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeOpenAIError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "test"))
	var failed *ErrProviderFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrProviderFailed, got: %T (%v)", err, err)
	}
	if IsTransient(err) {
		t.Fatal("500 must be fatal")
	}
}

func TestOpenAIProvider_ObjectSchemaSetsResponseFormat(t *testing.T) {
	var format map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		format, _ = body["response_format"].(map[string]any)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": `{}`}, "finish_reason": "stop"},
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	req := UserPrompt("", "test")
	req.Schema = testSchema()
	if _, err := p.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", format)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4.1-mini" {
		t.Fatalf("expected 'gpt-4.1-mini', got %q", p.ModelID())
	}
}
