package mask

import (
	"fmt"

	"github.com/example/go-numveil/internal/config"
	"github.com/example/go-numveil/internal/fakeval"
)

// NewFromConfig builds an Engine from the mask section of the runtime
// configuration. A non-empty replacement value selects the fixed policy;
// otherwise replacements come from a fakeval generator for the configured
// value kind and locale.
func NewFromConfig(cfg config.MaskConfig) (*Engine, error) {
	policy, err := buildPolicy(cfg)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Keywords: cfg.Keywords,
		Window:   cfg.WindowSize,
		Policy:   policy,
	})
}

func buildPolicy(cfg config.MaskConfig) (Policy, error) {
	if cfg.ReplacementValue != "" {
		return FixedPolicy{Value: cfg.ReplacementValue}, nil
	}
	gen, err := fakeval.New(cfg.ValueKind, cfg.FakerLocale)
	if err != nil {
		return nil, fmt.Errorf("build random policy: %w", err)
	}
	return RandomPolicy{Source: gen}, nil
}
