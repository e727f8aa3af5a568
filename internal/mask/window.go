package mask

import "github.com/example/go-numveil/internal/text"

// Span locates one matched number in the input: TokenIndex into the token
// stream and the byte range to rewrite.
type Span struct {
	TokenIndex int
	Start      int
	End        int
}

// FindMatches returns a span for every number token that has a keyword
// within the given word distance. Distance is the count of word and number
// tokens strictly between the two; punctuation and whitespace are invisible
// to it, so window 0 still matches a keyword and number separated only by
// ": ". Each number yields at most one span no matter how many keywords
// sit nearby, and spans come back in input order. A negative window
// matches nothing.
func FindMatches(tokens []text.Token, set KeywordSet, window int) []Span {
	if window < 0 {
		return nil
	}
	type entry struct {
		tokenIndex int
		keyword    bool
		number     bool
	}
	counted := make([]entry, 0, len(tokens))
	for i, tok := range tokens {
		switch tok.Kind {
		case text.KindWord:
			counted = append(counted, entry{tokenIndex: i, keyword: set.matchesToken(tok)})
		case text.KindNumber:
			counted = append(counted, entry{tokenIndex: i, number: true})
		}
	}

	// A keyword at counted position j anchors a number at position p when
	// |j-p|-1, the tokens strictly between them, is at most the window.
	reach := window + 1
	var spans []Span
	for p, e := range counted {
		if !e.number {
			continue
		}
		lo := p - reach
		if lo < 0 {
			lo = 0
		}
		hi := p + reach
		if hi > len(counted)-1 {
			hi = len(counted) - 1
		}
		for j := lo; j <= hi; j++ {
			if j == p || !counted[j].keyword {
				continue
			}
			tok := tokens[e.tokenIndex]
			spans = append(spans, Span{TokenIndex: e.tokenIndex, Start: tok.Start, End: tok.End})
			break
		}
	}
	return spans
}
