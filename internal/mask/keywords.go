// Package mask finds numbers that appear near configured keywords and
// rewrites them, leaving every other byte of the input untouched.
package mask

import (
	"errors"
	"sort"
	"strings"

	"github.com/example/go-numveil/internal/text"
)

// ErrNoKeywords is returned when a keyword list is empty after trimming.
var ErrNoKeywords = errors.New("keyword set is empty")

// KeywordSet holds the lower-cased keywords a match window anchors on.
// It is immutable after construction.
type KeywordSet struct {
	words map[string]struct{}
}

// ParseKeywords builds a KeywordSet from a comma-separated list. Entries are
// trimmed and lower-cased; empty entries are dropped. A keyword containing
// whitespace is kept as given but can only ever compare against single word
// tokens, so it never matches; phrase keywords are not supported.
func ParseKeywords(raw string) (KeywordSet, error) {
	words := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words[strings.ToLower(part)] = struct{}{}
	}
	if len(words) == 0 {
		return KeywordSet{}, ErrNoKeywords
	}
	return KeywordSet{words: words}, nil
}

// Contains reports whether token text equals a configured keyword,
// ignoring case.
func (s KeywordSet) Contains(word string) bool {
	if s.words == nil {
		return false
	}
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of configured keywords.
func (s KeywordSet) Len() int {
	return len(s.words)
}

// Words returns the configured keywords in sorted order.
func (s KeywordSet) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// matchesToken reports whether tok is a word token naming a keyword.
func (s KeywordSet) matchesToken(tok text.Token) bool {
	return tok.Kind == text.KindWord && s.Contains(tok.Text)
}
