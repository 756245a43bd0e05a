// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the generation stages that turn a topic
// into a finished article: gather context, synthesize a research report,
// draft the article, and optionally polish it.
// Implements: docs/ARCHITECTURE § Generation Pipeline.
//
// A run moves through the state machine
//
//	Idle → Gathering → ReportGenerating → ArticleGenerating → (Polishing) → Done
//
// and transitions to Failed from any generating state. Polishing is the
// one stage that degrades instead of failing: when it cannot complete,
// the run keeps the unpolished article and still reaches Done.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/article-engine/internal/gather"
	"github.com/pdiddy/article-engine/pkg/types"
)

// Per-stage output token budgets. The completion client additionally
// clamps these to its absolute ceiling.
const (
	reportMaxTokens  = 2500
	articleMaxTokens = 3500
	polishMaxTokens  = 4000
)

// keyPrefix mirrors the completion backend's credential format so the
// run can fail before any network call is made.
const keyPrefix = "gsk_"

// Completer abstracts the completion client so tests can supply a mock.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) types.GenerationResult
}

// RunError reports which stage a run failed in and why. It carries the
// first fatal failure's kind and message verbatim.
type RunError struct {
	Stage   types.RunState
	Kind    types.ErrorKind
	Message string
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("%s failed (%s): %s", e.Stage, e.Kind, e.Message)
}

// Options selects what a run should produce.
type Options struct {
	// Topic is the user-supplied subject.
	Topic string

	// Language is the output language for the article.
	Language string

	// Depth selects Basic or Detailed generation. Detailed adds the
	// polishing stage.
	Depth types.Depth
}

// Runner executes generation runs. Each run owns its bundle and draft
// exclusively; no state is shared across runs.
type Runner struct {
	completer Completer
	search    gather.SearchBackend
	enc       gather.EncyclopediaBackend
	cfg       types.PipelineConfig
	state     types.RunState
}

// NewRunner returns a Runner wired to the given backends.
func NewRunner(completer Completer, search gather.SearchBackend, enc gather.EncyclopediaBackend, cfg types.PipelineConfig) *Runner {
	return &Runner{
		completer: completer,
		search:    search,
		enc:       enc,
		cfg:       cfg,
		state:     types.StateIdle,
	}
}

// State returns the state the most recent run ended in (StateIdle before
// any run).
func (r *Runner) State() types.RunState {
	return r.state
}

// Run executes the full pipeline for one topic, writing progress to w.
// On success the returned draft's Final() holds the publishable text.
// On failure the returned error is a *RunError identifying the stage and
// the classified failure; no downstream stage runs after a failure.
func (r *Runner) Run(ctx context.Context, opts Options, w io.Writer) (types.ArticleDraft, error) {
	r.state = types.StateIdle
	draft := types.ArticleDraft{
		Topic:    opts.Topic,
		Language: opts.Language,
		Depth:    opts.Depth,
	}

	// Credential problems surface before any network call.
	if r.cfg.Completion.APIKey == "" {
		return draft, r.fail(types.ErrCredentialMissing, "completion API key not found")
	}
	if !strings.HasPrefix(r.cfg.Completion.APIKey, keyPrefix) {
		return draft, r.fail(types.ErrCredentialMalformed,
			fmt.Sprintf("invalid completion API key format: key should start with %q", keyPrefix))
	}

	r.state = types.StateGathering
	fmt.Fprintf(w, "gathering context for %q\n", opts.Topic)
	bundle := gather.Gather(ctx, opts.Topic, r.search, r.enc, r.cfg.Gather, w)
	fmt.Fprintf(w, "gathered %d web sources, encyclopedia: %s\n", len(bundle.Hits), bundle.Encyclopedia.Status)

	r.state = types.StateReportGenerating
	fmt.Fprintln(w, "generating research report")
	prompt, err := reportPrompt(opts.Topic, bundle)
	if err != nil {
		return draft, r.fail(types.ErrUnknown, fmt.Sprintf("rendering report prompt: %v", err))
	}
	res := r.completer.Complete(ctx, prompt, reportMaxTokens)
	if !res.OK {
		return draft, r.fail(res.Kind, res.Message)
	}
	draft.Report = res.Text

	r.state = types.StateArticleGenerating
	fmt.Fprintf(w, "writing article in %s\n", opts.Language)
	prompt, err = articlePrompt(opts.Topic, opts.Language, draft.Report, opts.Depth)
	if err != nil {
		return draft, r.fail(types.ErrUnknown, fmt.Sprintf("rendering article prompt: %v", err))
	}
	res = r.completer.Complete(ctx, prompt, articleMaxTokens)
	if !res.OK {
		return draft, r.fail(res.Kind, res.Message)
	}
	draft.Body = res.Text

	if opts.Depth == types.DepthDetailed {
		r.state = types.StatePolishing
		fmt.Fprintln(w, "polishing article")
		prompt, err = polishPrompt(opts.Topic, opts.Language, draft.Body)
		if err != nil {
			fmt.Fprintf(w, "warning: rendering polish prompt failed, keeping unpolished article: %v\n", err)
		} else if res = r.completer.Complete(ctx, prompt, polishMaxTokens); res.OK {
			draft.Polished = res.Text
		} else {
			// Polishing degrades rather than failing the run.
			fmt.Fprintf(w, "warning: polishing failed (%s), keeping unpolished article: %s\n", res.Kind, res.Message)
		}
	}

	r.state = types.StateDone
	return draft, nil
}

// fail records the Failed terminal state and returns the RunError for
// the stage the runner was in.
func (r *Runner) fail(kind types.ErrorKind, message string) *RunError {
	stage := r.state
	r.state = types.StateFailed
	return &RunError{Stage: stage, Kind: kind, Message: message}
}
