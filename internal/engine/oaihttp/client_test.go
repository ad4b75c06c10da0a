package oaihttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/engine"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func textResponse(status int, content string) *http.Response {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(string(b))),
	}
}

func testConfig() config.ModelConfig {
	return config.ModelConfig{
		Engine:         "oai_http",
		BaseURL:        "http://upstream/",
		APIKey:         "sk-test",
		Timeout:        config.Duration{Duration: 2 * time.Second},
		JSONSchemaMode: "auto",
		MaxRetries:     2,
	}
}

func TestGenerateTextPlain(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.String() != "http://upstream/v1/chat/completions" {
				t.Fatalf("unexpected url: %s", req.URL)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Fatalf("authorization=%q", got)
			}
			var in chatCompletionRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if in.Model != "tutor-model" || len(in.Messages) != 1 {
				t.Fatalf("request=%+v", in)
			}
			if in.GuidedJSON != nil {
				t.Fatalf("plain request should not carry guided_json")
			}
			return textResponse(http.StatusOK, "Here is a loop."), nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	out, err := e.GenerateText(context.Background(), "tutor-model", []engine.Message{
		{Role: "system", Content: "   "},
		{Role: "user", Content: "loops?"},
	}, engine.GenerateOptions{})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != "Here is a loop." {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateText_JSONSchemaAutoRetries(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			n := atomic.AddInt32(&calls, 1)

			var payload map[string]any
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			msgs, _ := payload["messages"].([]any)

			if n == 1 {
				if _, ok := payload["guided_json"]; !ok {
					t.Fatalf("expected guided_json on first attempt")
				}
				if len(msgs) != 2 {
					t.Fatalf("expected 2 messages on first attempt, got %d", len(msgs))
				}
				return textResponse(http.StatusOK, "not json"), nil
			}

			if _, ok := payload["guided_json"]; ok {
				t.Fatalf("did not expect guided_json on retry")
			}
			if len(msgs) != 3 {
				t.Fatalf("expected 3 messages on retry, got %d", len(msgs))
			}
			return textResponse(http.StatusOK, "```json\n{\"ok\":true}\n```"), nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	out, err := e.GenerateText(context.Background(), "tutor-model", []engine.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "user"},
	}, engine.GenerateOptions{
		JSONSchema: &engine.JSONSchema{Name: "roadmap", Schema: map[string]any{"type": "object"}, Strict: true},
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("out=%q", out)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls=%d", got)
	}
}

func TestGenerateTextClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(strings.NewReader(`{"error":"bad key"}`)),
			}, nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}

	_, err = e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{
		JSONSchema: &engine.JSONSchema{Name: "x", Strict: true},
	})
	he, ok := err.(*HTTPError)
	if !ok || he.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err=%v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls=%d", got)
	}
}

func TestGenerateTextNoMessages(t *testing.T) {
	e, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.GenerateText(context.Background(), "m", nil, engine.GenerateOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSanitizeJSONText(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                   `{"a":1}`,
		"```json\n{\"a\":1}\n```":   `{"a":1}`,
		"```{\"a\":1}```":           `{"a":1}`,
		"  \n```\n[1,2]\n```  \n": `[1,2]`,
	}
	for in, want := range cases {
		if got := sanitizeJSONText(in); got != want {
			t.Errorf("sanitizeJSONText(%q)=%q want %q", in, got, want)
		}
	}
}

func TestGenerateTextRetriesServerErrors(t *testing.T) {
	var calls int32
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return &http.Response{
					StatusCode: http.StatusServiceUnavailable,
					Header:     http.Header{},
					Body:       io.NopCloser(strings.NewReader("overloaded")),
				}, nil
			}
			return textResponse(http.StatusOK, `{"ok":true}`), nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	e.retryBackoff = time.Millisecond

	out, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{
		JSONSchema: &engine.JSONSchema{Name: "x", Strict: true},
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("out=%q", out)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls=%d", got)
	}
}

func TestHTTPErrorCarriesRetryAfter(t *testing.T) {
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Header:     http.Header{"Retry-After": []string{"4"}},
				Body:       io.NopCloser(strings.NewReader("slow down")),
			}, nil
		}),
	}
	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, err = e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	he, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("err=%v", err)
	}
	if he.RetryAfter != 4*time.Second || !he.Retryable() {
		t.Fatalf("retry_after=%v retryable=%v", he.RetryAfter, he.Retryable())
	}
}
