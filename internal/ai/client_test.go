package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
}

func completionResponse(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return body
}

func TestCompleteReturnsTrimmedFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write(completionResponse("  Finance \n"))
	})

	out, err := client.Complete(context.Background(), "Categorize this task", 50)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "Finance" {
		t.Errorf("Complete() = %q, want %q", out, "Finance")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotReq.MaxTokens != 50 {
		t.Errorf("max_tokens = %d, want 50", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != systemPrompt {
		t.Errorf("request lacked the fixed system instruction: %+v", gotReq.Messages)
	}
}

func TestCompleteWithoutKeyFailsBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), "hello", 10); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Complete() error = %v, want ErrNotConfigured", err)
	}
	if called {
		t.Error("unconfigured client reached the network")
	}
}

func TestCompleteUpstreamStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), "hello", 10)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Complete() error = %v, want *UpstreamError", err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", upErr.StatusCode)
	}
}

func TestCompleteMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	var upErr *UpstreamError
	if _, err := client.Complete(context.Background(), "hello", 10); !errors.As(err, &upErr) {
		t.Fatalf("Complete() error = %v, want *UpstreamError", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	var upErr *UpstreamError
	if _, err := client.Complete(context.Background(), "hello", 10); !errors.As(err, &upErr) {
		t.Fatalf("Complete() error = %v, want *UpstreamError", err)
	}
}
