package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/learning-planner/internal/config"
	"github.com/yungbote/learning-planner/internal/engine"
	"github.com/yungbote/learning-planner/internal/platform/httpx"
)

const (
	chatCompletionsPath  = "/v1/chat/completions"
	defaultMaxRetries    = 2
	maxSchemaPromptBytes = 64 << 10
	maxErrorBodyBytes    = 1 << 20
	defaultRetryBackoff  = 500 * time.Millisecond
	maxRetryBackoff      = 10 * time.Second
)

// Engine talks to any OpenAI-compatible chat completions server.
type Engine struct {
	baseURL string
	apiKey  string
	timeout time.Duration

	jsonSchemaMode       string
	jsonSchemaMaxRetries int
	retryBackoff         time.Duration

	httpClient *http.Client
}

func New(cfg config.ModelConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.JSONSchemaMode))
	if mode == "" {
		mode = "auto"
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Engine{
		baseURL:              baseURL,
		apiKey:               strings.TrimSpace(cfg.APIKey),
		timeout:              timeout,
		jsonSchemaMode:       mode,
		jsonSchemaMaxRetries: maxRetries,
		retryBackoff:         defaultRetryBackoff,
		httpClient:           &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.ModelConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`

	// vLLM/SGLang style extensions.
	ResponseFormat map[string]any `json:"response_format,omitempty"`
	GuidedJSON     any            `json:"guided_json,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	chatMsgs := toChatMessages(messages)
	if len(chatMsgs) == 0 {
		return "", errors.New("no messages")
	}

	strict := opts.JSONSchema != nil && opts.JSONSchema.Strict
	attempts := 1
	if strict {
		attempts = 1 + e.jsonSchemaMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		reqBody := e.buildChatRequest(model, chatMsgs, opts, attempt)

		var resp chatCompletionResponse
		if err := e.doJSON(ctx, reqBody, &resp); err != nil {
			lastErr = err
			var he *HTTPError
			if errors.As(err, &he) && !he.Retryable() {
				return "", err
			}
			if attempt+1 < attempts && httpx.IsRetryableError(err) {
				if serr := httpx.Sleep(ctx, e.backoffFor(he)); serr != nil {
					return "", serr
				}
			}
			continue
		}

		text := extractChatText(resp)
		if strings.TrimSpace(text) == "" {
			lastErr = errors.New("empty upstream completion")
			continue
		}

		if strict {
			clean := sanitizeJSONText(text)
			if err := validateJSON(clean); err != nil {
				lastErr = err
				continue
			}
			return clean, nil
		}
		return text, nil
	}

	if lastErr == nil {
		lastErr = errors.New("generation failed")
	}
	return "", lastErr
}

func (e *Engine) backoffFor(he *HTTPError) time.Duration {
	base := e.retryBackoff
	if he != nil && he.RetryAfter > 0 {
		base = he.RetryAfter
	}
	if base > maxRetryBackoff {
		base = maxRetryBackoff
	}
	return httpx.JitterSleep(base)
}

func (e *Engine) buildChatRequest(model string, messages []chatMessage, opts engine.GenerateOptions, attempt int) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
	}
	if opts.JSONSchema == nil || e.jsonSchemaMode == "none" {
		return req
	}

	useGuided := e.jsonSchemaMode == "guided_json" || (e.jsonSchemaMode == "auto" && attempt == 0)
	usePrompt := e.jsonSchemaMode == "prompt" || (e.jsonSchemaMode == "auto" && attempt > 0)

	if useGuided && opts.JSONSchema.Schema != nil {
		req.ResponseFormat = map[string]any{"type": "json_object"}
		req.GuidedJSON = opts.JSONSchema.Schema
	}
	if usePrompt {
		req.Messages = append(append([]chatMessage(nil), messages...), chatMessage{
			Role:    engine.RoleSystem,
			Content: jsonSchemaPrompt(opts.JSONSchema),
		})
	}
	return req
}

func jsonSchemaPrompt(s *engine.JSONSchema) string {
	var b strings.Builder
	b.WriteString("Return ONLY a valid JSON value that conforms to the provided JSON Schema. Do not include markdown or commentary.\n")
	if name := strings.TrimSpace(s.Name); name != "" {
		b.WriteString("Schema name: ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	if s.Schema != nil {
		if raw, err := json.Marshal(s.Schema); err == nil && len(raw) <= maxSchemaPromptBytes {
			b.WriteString("Schema:\n")
			b.Write(raw)
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func toChatMessages(messages []engine.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, chatMessage{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

func sanitizeJSONText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func validateJSON(s string) error {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func (e *Engine) doJSON(ctx context.Context, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, e.baseURL+chatCompletionsPath, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfterDuration(resp, 0, maxRetryBackoff),
		}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
