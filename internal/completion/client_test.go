// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/article-engine/pkg/types"
)

func testClient(apiKey string) *Client {
	return NewClient(types.CompletionConfig{
		APIKey: apiKey,
		Model:  types.ModelLlama31Instant,
	})
}

func withServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := completionsURL
	completionsURL = ts.URL
	t.Cleanup(func() { completionsURL = old })
	return ts
}

func successBody(text string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, text)
}

// --- request ceilings ---

func TestBuildRequestTruncatesLongPrompts(t *testing.T) {
	long := strings.Repeat("a", promptCharCeiling+500)

	req := buildRequest(types.ModelLlama31Instant, long, 1000)

	want := strings.Repeat("a", promptCharCeiling) + truncationMarker
	if req.PromptText != want {
		t.Errorf("prompt length = %d, want exactly %d + marker", len(req.PromptText), promptCharCeiling)
	}
}

func TestBuildRequestCountsCharactersNotBytes(t *testing.T) {
	// Each Kannada character is three UTF-8 bytes, so this prompt is
	// well past the ceiling in bytes but under it in characters.
	under := strings.Repeat("ಕ", promptCharCeiling-100)

	req := buildRequest(types.ModelLlama31Instant, under, 1000)

	if req.PromptText != under {
		t.Error("multi-byte prompt under the character ceiling should not be truncated")
	}
}

func TestBuildRequestTruncatesMultiBytePromptsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("深", promptCharCeiling+200)

	req := buildRequest(types.ModelLlama31Instant, long, 1000)

	want := strings.Repeat("深", promptCharCeiling) + truncationMarker
	if req.PromptText != want {
		t.Errorf("got %d characters, want exactly %d + marker",
			utf8.RuneCountInString(req.PromptText), promptCharCeiling)
	}
	if !utf8.ValidString(req.PromptText) {
		t.Error("truncated prompt is not valid UTF-8")
	}
}

func TestBuildRequestKeepsShortPrompts(t *testing.T) {
	prompt := strings.Repeat("b", promptCharCeiling)

	req := buildRequest(types.ModelLlama31Instant, prompt, 1000)

	if req.PromptText != prompt {
		t.Errorf("prompt at the ceiling should not be truncated")
	}
}

func TestBuildRequestClampsMaxTokens(t *testing.T) {
	tests := []struct {
		name      string
		maxTokens int
		want      int
	}{
		{"above ceiling", 5000, maxTokenCeiling},
		{"at ceiling", 4000, 4000},
		{"below ceiling", 2500, 2500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildRequest(types.ModelLlama31Instant, "p", tt.maxTokens)
			if req.MaxOutputTokens != tt.want {
				t.Errorf("MaxOutputTokens = %d, want %d", req.MaxOutputTokens, tt.want)
			}
		})
	}
}

// --- credential checks (no network) ---

func TestCompleteMissingCredential(t *testing.T) {
	var calls int
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, successBody("never"))
	})

	res := testClient("").Complete(context.Background(), "prompt", 100)

	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Kind != types.ErrCredentialMissing {
		t.Errorf("kind = %q, want credential_missing", res.Kind)
	}
	if calls != 0 {
		t.Errorf("backend called %d times, want 0", calls)
	}
}

func TestCompleteMalformedCredential(t *testing.T) {
	var calls int
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, successBody("never"))
	})

	res := testClient("sk-wrong-prefix").Complete(context.Background(), "prompt", 100)

	if res.Kind != types.ErrCredentialMalformed {
		t.Errorf("kind = %q, want credential_malformed", res.Kind)
	}
	if calls != 0 {
		t.Errorf("backend called %d times, want 0", calls)
	}
}

// --- request construction ---

func TestCompleteRequestBody(t *testing.T) {
	var captured chatRequest
	var auth string
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&captured)
		fmt.Fprint(w, successBody("ok"))
	})

	res := testClient("gsk_test123").Complete(context.Background(), "write about turtles", 9999)
	if !res.OK {
		t.Fatalf("Complete failed: %s", res.Message)
	}

	if auth != "Bearer gsk_test123" {
		t.Errorf("Authorization = %q", auth)
	}
	if captured.Model != string(types.ModelLlama31Instant) {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.MaxTokens != maxTokenCeiling {
		t.Errorf("max_tokens = %d, want clamped %d", captured.MaxTokens, maxTokenCeiling)
	}
	if captured.Temperature != temperature {
		t.Errorf("temperature = %v, want %v", captured.Temperature, temperature)
	}
	if captured.TopP != topP {
		t.Errorf("top_p = %v, want %v", captured.TopP, topP)
	}
	if captured.Stream {
		t.Error("stream should be false")
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want single user message", captured.Messages)
	}
	if captured.Messages[0].Content != "write about turtles" {
		t.Errorf("content = %q", captured.Messages[0].Content)
	}
}

// --- HTTP status classification ---

func TestCompleteAuthInvalid(t *testing.T) {
	var calls int
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := testClient("gsk_bad").Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrAuthInvalid {
		t.Errorf("kind = %q, want auth_invalid", res.Kind)
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want exactly 1 (no retry)", calls)
	}
}

func TestCompleteRateLimited429(t *testing.T) {
	var calls int
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	res := testClient("gsk_k").Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrRateLimited {
		t.Errorf("kind = %q, want rate_limited", res.Kind)
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want exactly 1 (no retry)", calls)
	}
}

func TestCompleteBadRequestSubclassification(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind types.ErrorKind
	}{
		{
			"model not available",
			`{"error":{"message":"The model 'nope' does not exist","type":"invalid_request_error"}}`,
			types.ErrModelUnavailable,
		},
		{
			"token limit",
			`{"error":{"message":"Request exceeds the maximum token count","type":"invalid_request_error"}}`,
			types.ErrTokenLimitExceeded,
		},
		{
			"rate limit lowercase",
			`{"error":{"message":"rate limit reached for requests","type":"requests"}}`,
			types.ErrRateLimited,
		},
		{
			"rate limit mixed case",
			`{"error":{"message":"Rate limit reached, slow down","type":"requests"}}`,
			types.ErrRateLimited,
		},
		{
			"generic 400",
			`{"error":{"message":"malformed field 'messages'","type":"invalid_request_error"}}`,
			types.ErrHTTP,
		},
		{
			"unparseable body",
			`<html>bad gateway</html>`,
			types.ErrHTTP,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, tt.body)
			})

			res := testClient("gsk_k").Complete(context.Background(), "p", 100)

			if res.OK {
				t.Fatal("expected failure")
			}
			if res.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", res.Kind, tt.wantKind)
			}
			if res.Message == "" {
				t.Error("failure should carry an advisory message")
			}
		})
	}
}

func TestCompleteUnparseable400CapsBodySnippet(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "  <html>"+strings.Repeat("y", 1000)+"</html>")
	})

	res := testClient("gsk_k").Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrHTTP {
		t.Errorf("kind = %q, want http_error", res.Kind)
	}
	if !strings.Contains(res.Message, "invalid request format") {
		t.Errorf("message %q should flag the unparseable body", res.Message)
	}
	if strings.Contains(res.Message, ": <html>") == false {
		t.Errorf("message %q should carry a trimmed body excerpt", res.Message)
	}
	if len(res.Message) > 300 {
		t.Errorf("message length = %d, body snippet not capped", len(res.Message))
	}
}

func TestCompleteOtherStatusCapsBodySnippet(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, strings.Repeat("x", 1000))
	})

	res := testClient("gsk_k").Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrHTTP {
		t.Errorf("kind = %q, want http_error", res.Kind)
	}
	if !strings.Contains(res.Message, "503") {
		t.Errorf("message %q should mention the status", res.Message)
	}
	if len(res.Message) > 400 {
		t.Errorf("message length = %d, body snippet not capped", len(res.Message))
	}
}

// --- response body handling ---

func TestCompleteSuccess(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, successBody("generated article text"))
	})

	res := testClient("gsk_k").Complete(context.Background(), "p", 100)

	if !res.OK {
		t.Fatalf("Complete failed: %s", res.Message)
	}
	if res.Text != "generated article text" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{{{`},
		{"missing choices", `{"id":"cmpl-1","object":"chat.completion"}`},
		{"empty choices", `{"choices":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			res := testClient("gsk_k").Complete(context.Background(), "p", 100)

			if res.Kind != types.ErrMalformedResponse {
				t.Errorf("kind = %q, want malformed_response", res.Kind)
			}
		})
	}
}

// --- transport failures ---

func TestCompleteTimeout(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, successBody("late"))
	})

	c := NewClient(types.CompletionConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 20 * time.Millisecond},
		APIKey:     "gsk_k",
		Model:      types.ModelLlama31Instant,
	})

	res := c.Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrTimeout {
		t.Errorf("kind = %q, want timeout", res.Kind)
	}
}

func TestCompleteUnreachable(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	old := completionsURL
	completionsURL = ts.URL
	defer func() { completionsURL = old }()

	res := testClient("gsk_k").Complete(context.Background(), "p", 100)

	if res.Kind != types.ErrUnreachable {
		t.Errorf("kind = %q, want unreachable", res.Kind)
	}
}

// --- probe ---

func TestProbeSendsFixedPrompt(t *testing.T) {
	var captured chatRequest
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		fmt.Fprint(w, successBody("Connection test successful"))
	})

	res := testClient("gsk_k").Probe(context.Background())

	if !res.OK {
		t.Fatalf("Probe failed: %s", res.Message)
	}
	if captured.Messages[0].Content != probePrompt {
		t.Errorf("probe prompt = %q", captured.Messages[0].Content)
	}
	if captured.MaxTokens != 20 {
		t.Errorf("probe max_tokens = %d, want 20", captured.MaxTokens)
	}
}
