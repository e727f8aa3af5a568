package mask

import (
	"errors"
	"fmt"

	"github.com/example/go-numveil/internal/text"
)

var (
	// ErrNegativeWindow is returned when the window size is below zero.
	ErrNegativeWindow = errors.New("window size is negative")
	// ErrNoPolicy is returned when no replacement policy is configured.
	ErrNoPolicy = errors.New("replacement policy is not configured")
)

// Options configure an Engine.
type Options struct {
	// Keywords is the comma-separated keyword list numbers must be near.
	Keywords string
	// Window is the maximum word distance between keyword and number.
	Window int
	// Policy produces replacement values.
	Policy Policy
}

// Engine applies one masking configuration to any number of inputs.
// It is read-only after construction and safe for concurrent use as long
// as its policy is.
type Engine struct {
	set    KeywordSet
	window int
	policy Policy
}

// New validates opts and builds an Engine. All configuration errors
// surface here, before any input is scanned.
func New(opts Options) (*Engine, error) {
	set, err := ParseKeywords(opts.Keywords)
	if err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	if opts.Window < 0 {
		return nil, fmt.Errorf("window %d: %w", opts.Window, ErrNegativeWindow)
	}
	if opts.Policy == nil {
		return nil, ErrNoPolicy
	}
	return &Engine{set: set, window: opts.Window, policy: opts.Policy}, nil
}

// Result is the outcome of masking one input.
type Result struct {
	// Output is the rewritten text. With no matches it equals the input.
	Output string
	// Matches counts the numbers that were replaced.
	Matches int
}

// Mask rewrites every number within the keyword window and returns the
// result. Inputs with no matches come back unchanged; a policy failure
// aborts with no partial output.
func (e *Engine) Mask(input string) (Result, error) {
	tokens := text.Tokenize(input)
	spans := FindMatches(tokens, e.set, e.window)
	output, err := Apply(input, spans, e.policy)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: output, Matches: len(spans)}, nil
}

// Keywords returns the configured keywords in sorted order.
func (e *Engine) Keywords() []string {
	return e.set.Words()
}

// Window returns the configured word distance.
func (e *Engine) Window() int {
	return e.window
}
