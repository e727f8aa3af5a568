// Package text splits raw input into classified, position-tracked tokens.
//
// Tokens carry byte-offset spans into the original string so downstream
// rewriting can reproduce every untouched byte exactly.
package text

// Kind classifies a token.
type Kind uint8

const (
	// KindWord is a run of letters and digits (or a numeric-looking run
	// that fails the stand-alone number grammar, such as "abc123").
	KindWord Kind = iota
	// KindNumber is a stand-alone numeric literal.
	KindNumber
	// KindPunct is a single punctuation rune.
	KindPunct
	// KindSpace is a run of whitespace.
	KindSpace
)

// String returns a short lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindNumber:
		return "number"
	case KindPunct:
		return "punct"
	case KindSpace:
		return "space"
	default:
		return "unknown"
	}
}

// Token is a classified slice of the input text.
// Start and End are byte offsets forming a half-open interval; Tokenize
// produces tokens in ascending Start order with no overlaps or gaps.
type Token struct {
	Text  string
	Start int
	End   int
	Kind  Kind
}
