package mask

import "fmt"

// Policy produces the replacement text for one matched number. The original
// text is passed in so a policy may derive from it; the built-in policies
// ignore it.
type Policy interface {
	Generate(original string) (string, error)
}

// FixedPolicy replaces every match with the same literal value.
type FixedPolicy struct {
	Value string
}

// Generate returns the fixed value.
func (p FixedPolicy) Generate(string) (string, error) {
	return p.Value, nil
}

// ValueSource produces plausible replacement values for RandomPolicy.
// Implementations must be safe for concurrent use.
type ValueSource interface {
	Value() (string, error)
}

// RandomPolicy draws a fresh value from its source for every match.
type RandomPolicy struct {
	Source ValueSource
}

// Generate returns the next value from the source.
func (p RandomPolicy) Generate(string) (string, error) {
	v, err := p.Source.Value()
	if err != nil {
		return "", fmt.Errorf("draw replacement value: %w", err)
	}
	return v, nil
}
