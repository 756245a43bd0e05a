// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ModelID identifies a completion model supported by the completion backend.
type ModelID string

const (
	ModelLlama31Instant   ModelID = "llama-3.1-8b-instant"
	ModelLlama31Versatile ModelID = "llama-3.1-70b-versatile"
	ModelLlama3Small      ModelID = "llama3-8b-8192"
	ModelMixtral          ModelID = "mixtral-8x7b-32768"
	ModelLlama3Large      ModelID = "llama3-70b-8192"
)

// SupportedModels lists the model identifiers the CLI accepts, most
// reliable first.
var SupportedModels = []ModelID{
	ModelLlama31Instant,
	ModelLlama31Versatile,
	ModelLlama3Small,
	ModelMixtral,
	ModelLlama3Large,
}

// IsSupported reports whether m is a known model identifier.
func (m ModelID) IsSupported() bool {
	for _, s := range SupportedModels {
		if m == s {
			return true
		}
	}
	return false
}

// Depth selects how thorough a generation run should be. Detailed runs
// target a longer article and add a polishing pass.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthDetailed Depth = "detailed"
)

// ErrorKind classifies a completion failure. The kinds cover credential
// problems detected before any network call, HTTP-level rejections,
// transport failures, and malformed response bodies.
type ErrorKind string

const (
	ErrCredentialMissing   ErrorKind = "credential_missing"
	ErrCredentialMalformed ErrorKind = "credential_malformed"
	ErrAuthInvalid         ErrorKind = "auth_invalid"
	ErrRateLimited         ErrorKind = "rate_limited"
	ErrModelUnavailable    ErrorKind = "model_unavailable"
	ErrTokenLimitExceeded  ErrorKind = "token_limit_exceeded"
	ErrHTTP                ErrorKind = "http_error"
	ErrTimeout             ErrorKind = "timeout"
	ErrUnreachable         ErrorKind = "unreachable"
	ErrMalformedResponse   ErrorKind = "malformed_response"
	ErrUnknown             ErrorKind = "unknown"
)

// GenerationRequest describes one call to the completion backend after
// the client has applied its ceilings: PromptText is at most the prompt
// character ceiling and MaxOutputTokens at most the token ceiling.
type GenerationRequest struct {
	// Model is the completion model identifier.
	Model ModelID `json:"model" yaml:"model"`

	// PromptText is the single-turn user prompt.
	PromptText string `json:"prompt_text" yaml:"prompt_text"`

	// MaxOutputTokens bounds the completion length.
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// Temperature is fixed by the client.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// GenerationResult is the tagged outcome of one completion call. Exactly
// one of the success text or the failure fields is meaningful; callers
// branch on OK rather than checking for errors. Nothing propagates past
// the completion client as a Go error or panic.
type GenerationResult struct {
	// OK is true for a successful completion.
	OK bool `json:"ok" yaml:"ok"`

	// Text is the generated text. Set only when OK.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Kind classifies the failure. Set only when not OK.
	Kind ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Message is the human-readable failure advisory. Set only when not OK.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Success returns a successful GenerationResult carrying text.
func Success(text string) GenerationResult {
	return GenerationResult{OK: true, Text: text}
}

// Failure returns a failed GenerationResult with a kind and advisory message.
func Failure(kind ErrorKind, message string) GenerationResult {
	return GenerationResult{Kind: kind, Message: message}
}

// ArticleDraft accumulates the pipeline's output for one run. It is
// created empty at run start, each field is populated by its stage, and
// it is discarded when the run ends.
type ArticleDraft struct {
	// Topic is the user-supplied subject.
	Topic string `json:"topic" yaml:"topic"`

	// Language is the requested output language (e.g. "English", "French").
	Language string `json:"language" yaml:"language"`

	// Depth is the requested research depth.
	Depth Depth `json:"depth" yaml:"depth"`

	// Report is the intermediate research report.
	Report string `json:"report" yaml:"report"`

	// Body is the generated article text.
	Body string `json:"body" yaml:"body"`

	// Polished is the improved article text. Empty unless Depth is
	// Detailed and the polishing stage succeeded.
	Polished string `json:"polished,omitempty" yaml:"polished,omitempty"`
}

// Final returns the text a reader should see: the polished article when
// polishing succeeded, otherwise the unpolished body.
func (d ArticleDraft) Final() string {
	if d.Polished != "" {
		return d.Polished
	}
	return d.Body
}

// RunState tracks a run through the pipeline state machine:
// Idle → Gathering → ReportGenerating → ArticleGenerating → (Polishing) → Done,
// with Failed reachable from any generating state. Done and Failed are terminal.
type RunState string

const (
	StateIdle              RunState = "idle"
	StateGathering         RunState = "gathering"
	StateReportGenerating  RunState = "report_generating"
	StateArticleGenerating RunState = "article_generating"
	StatePolishing         RunState = "polishing"
	StateDone              RunState = "done"
	StateFailed            RunState = "failed"
)
