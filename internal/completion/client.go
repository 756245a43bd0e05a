// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion wraps the hosted chat-completion API behind a
// single call that never fails with a Go error: every outcome, including
// credential problems, HTTP rejections, transport failures, and
// malformed bodies, is folded into a tagged GenerationResult. Callers
// branch on the result tag instead of handling errors.
// Implements: docs/ARCHITECTURE § Completion Client.
package completion

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

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// completionsURL is the chat-completions endpoint. Declared as a var so
// tests can substitute an httptest server.
var completionsURL = "https://api.groq.com/openai/v1/chat/completions"

const (
	// promptCharCeiling bounds the prompt length sent to the backend.
	// Longer prompts are cut and marked so the model knows content is missing.
	promptCharCeiling = 15000
	truncationMarker  = "\n\n[Content truncated due to length]"

	// maxTokenCeiling is the absolute output-token limit.
	maxTokenCeiling = 4000

	// Fixed sampling parameters for every request.
	temperature = 0.7
	topP        = 1.0

	// keyPrefix is the prefix of every valid backend credential.
	keyPrefix = "gsk_"

	// defaultTimeout is the per-request transport budget.
	defaultTimeout = 120 * time.Second

	// bodySnippetMax caps error body excerpts surfaced to users.
	bodySnippetMax = 300
)

// probePrompt is the fixed prompt used by the preflight connection check.
const probePrompt = "Say 'Connection test successful'"

// Client issues single-turn chat-completion requests. It is stateless
// across calls and safe for concurrent use.
type Client struct {
	cfg    types.CompletionConfig
	client *http.Client
}

// NewClient returns a Client for the given configuration. A zero
// cfg.Timeout uses the default 120 s budget.
func NewClient(cfg types.CompletionConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// chatRequest is the request body for the chat-completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the response body the client uses.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is the structured error body returned with HTTP 400.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// buildRequest applies the client's ceilings to a raw prompt and token
// budget: prompts over the character ceiling are truncated with a marker,
// and the token budget is clamped to the absolute limit. The ceiling
// counts characters, not bytes, so multi-byte languages get the full
// budget and a cut never lands mid-rune.
func buildRequest(model types.ModelID, prompt string, maxTokens int) types.GenerationRequest {
	if runes := []rune(prompt); len(runes) > promptCharCeiling {
		prompt = string(runes[:promptCharCeiling]) + truncationMarker
	}
	if maxTokens > maxTokenCeiling {
		maxTokens = maxTokenCeiling
	}
	return types.GenerationRequest{
		Model:           model,
		PromptText:      prompt,
		MaxOutputTokens: maxTokens,
		Temperature:     temperature,
	}
}

// Complete sends one single-turn completion request and classifies every
// failure into an ErrorKind with a human-readable advisory. It performs
// no retries. Credential problems are detected before any network call.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) types.GenerationResult {
	if c.cfg.APIKey == "" {
		return types.Failure(types.ErrCredentialMissing, "completion API key not found")
	}
	if !strings.HasPrefix(c.cfg.APIKey, keyPrefix) {
		return types.Failure(types.ErrCredentialMalformed,
			fmt.Sprintf("invalid completion API key format: key should start with %q", keyPrefix))
	}

	genReq := buildRequest(c.cfg.Model, prompt, maxTokens)

	reqBody := chatRequest{
		Model:       string(genReq.Model),
		Messages:    []chatMessage{{Role: "user", Content: genReq.PromptText}},
		MaxTokens:   genReq.MaxOutputTokens,
		Temperature: genReq.Temperature,
		TopP:        topP,
		Stream:      false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.Failure(types.ErrUnknown, fmt.Sprintf("marshaling request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.Failure(types.ErrUnknown, fmt.Sprintf("creating request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to body parsing below.
	case http.StatusBadRequest:
		return classifyBadRequest(resp.Body)
	case http.StatusUnauthorized:
		return types.Failure(types.ErrAuthInvalid, "invalid API key: check your completion API key")
	case http.StatusTooManyRequests:
		return types.Failure(types.ErrRateLimited, "rate limit exceeded: wait a moment and try again")
	default:
		snippet := httputil.BodySnippet(resp.Body, bodySnippetMax)
		return types.Failure(types.ErrHTTP,
			fmt.Sprintf("completion API returned HTTP %d: %s", resp.StatusCode, snippet))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return types.Failure(types.ErrMalformedResponse, fmt.Sprintf("invalid JSON response: %v", err))
	}
	if len(cr.Choices) == 0 {
		return types.Failure(types.ErrMalformedResponse, "response contains no completion choices")
	}

	return types.Success(cr.Choices[0].Message.Content)
}

// Probe sends a tiny fixed completion to verify the credential and the
// backend are reachable before a run commits to a full pipeline.
func (c *Client) Probe(ctx context.Context) types.GenerationResult {
	return c.Complete(ctx, probePrompt, 20)
}

// classifyTransportError maps request-level failures onto the error
// taxonomy: timeouts are distinguished from connection failures, and
// anything unrecognized is surfaced as Unknown.
func classifyTransportError(err error) types.GenerationResult {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.Failure(types.ErrTimeout, "request timed out: the completion API is taking too long to respond")
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return types.Failure(types.ErrTimeout, "request timed out: the completion API is taking too long to respond")
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return types.Failure(types.ErrUnreachable, "cannot connect to the completion API: check your network connection")
	}
	if errors.Is(err, context.Canceled) {
		return types.Failure(types.ErrUnknown, "request cancelled")
	}
	return types.Failure(types.ErrUnknown, fmt.Sprintf("network issue: %v", err))
}

// classifyBadRequest sub-classifies an HTTP 400 by substring match on
// the structured error message. The substrings are a compatibility
// heuristic carried over from the backend's observed wording, isolated
// here so structured error codes can replace them if the backend ever
// provides them.
func classifyBadRequest(body io.Reader) types.GenerationResult {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))

	var ae apiError
	if err := json.Unmarshal(raw, &ae); err != nil || ae.Error.Message == "" {
		snippet := httputil.BodySnippet(bytes.NewReader(raw), 200)
		return types.Failure(types.ErrHTTP, fmt.Sprintf("HTTP 400: invalid request format: %s", snippet))
	}

	msg := strings.ToLower(ae.Error.Message)
	switch {
	case strings.Contains(msg, "model"):
		return types.Failure(types.ErrModelUnavailable,
			fmt.Sprintf("model not available: %s (try: %s)", ae.Error.Message, types.ModelLlama31Instant))
	case strings.Contains(msg, "token"):
		return types.Failure(types.ErrTokenLimitExceeded,
			fmt.Sprintf("token limit issue: %s", ae.Error.Message))
	case strings.Contains(msg, "rate"):
		return types.Failure(types.ErrRateLimited,
			fmt.Sprintf("rate limit exceeded: %s", ae.Error.Message))
	default:
		return types.Failure(types.ErrHTTP,
			fmt.Sprintf("HTTP 400: %s (type: %s)", ae.Error.Message, ae.Error.Type))
	}
}
