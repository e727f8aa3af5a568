package mask

import (
	"fmt"
	"strings"
)

// Apply rewrites the spans of input with policy output, copying every byte
// outside them verbatim. Spans must be sorted, non-overlapping and within
// bounds, which FindMatches guarantees. Zero spans returns the input as-is.
// A policy failure aborts the whole rewrite; the error carries the byte
// offset but never echoes the matched text.
func Apply(input string, spans []Span, policy Policy) (string, error) {
	if len(spans) == 0 {
		return input, nil
	}
	var b strings.Builder
	b.Grow(len(input))
	last := 0
	for _, sp := range spans {
		repl, err := policy.Generate(input[sp.Start:sp.End])
		if err != nil {
			return "", fmt.Errorf("replacement at offset %d: %w", sp.Start, err)
		}
		b.WriteString(input[last:sp.Start])
		b.WriteString(repl)
		last = sp.End
	}
	b.WriteString(input[last:])
	return b.String(), nil
}
