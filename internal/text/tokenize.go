package text

import (
	"unicode"
	"unicode/utf8"
)

// Tokenize splits s into a complete token stream: concatenating the Text of
// all tokens reproduces s byte for byte. Every input is tokenizable; bytes
// that decode to no known class become single-rune punctuation tokens.
func Tokenize(s string) []Token {
	var tokens []Token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			j := i + size
			for j < len(s) {
				r2, sz := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += sz
			}
			tokens = append(tokens, Token{Text: s[i:j], Start: i, End: j, Kind: KindSpace})
			i = j
		case r >= '0' && r <= '9':
			if end, ok := scanNumber(s, i); ok {
				tokens = append(tokens, Token{Text: s[i:end], Start: i, End: end, Kind: KindNumber})
				i = end
				break
			}
			j := scanRun(s, i)
			tokens = append(tokens, Token{Text: s[i:j], Start: i, End: j, Kind: KindWord})
			i = j
		case r == '+' || r == '-':
			if signAttaches(s, i) {
				if end, ok := scanNumber(s, i); ok {
					tokens = append(tokens, Token{Text: s[i:end], Start: i, End: end, Kind: KindNumber})
					i = end
					break
				}
			}
			tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Kind: KindPunct})
			i += size
		case r == '.':
			// A leading '.' never starts a number; the run (a bare dot,
			// ".5", dotted sequences) is classified as a word.
			j := scanRun(s, i)
			tokens = append(tokens, Token{Text: s[i:j], Start: i, End: j, Kind: KindWord})
			i = j
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			j := i + size
			for j < len(s) {
				r2, sz := utf8.DecodeRuneInString(s[j:])
				if !unicode.IsLetter(r2) && !unicode.IsDigit(r2) && r2 != '_' {
					break
				}
				j += sz
			}
			tokens = append(tokens, Token{Text: s[i:j], Start: i, End: j, Kind: KindWord})
			i = j
		default:
			tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Kind: KindPunct})
			i += size
		}
	}
	return tokens
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// signAttaches reports whether a '+' or '-' at i belongs to a following
// number: it must sit at the start of the input or after whitespace, and a
// digit must follow directly. Anywhere else the sign is ordinary punctuation.
func signAttaches(s string, i int) bool {
	if i+1 >= len(s) || !isASCIIDigit(s[i+1]) {
		return false
	}
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}

// scanNumber reports the end offset of a stand-alone numeric literal
// starting at i, which must point at an ASCII digit or an attached sign.
// The literal is an optional sign, an integer part written either as plain
// digits or as 1-3 digits followed by comma-separated groups of exactly
// three, and an optional decimal point carrying at least one digit.
// ok is false when the characters at i spell something broader than a
// stand-alone number, such as digits running into letters or a further
// dotted group; the caller then falls back to a word token.
func scanNumber(s string, i int) (end int, ok bool) {
	j := i
	if s[j] == '+' || s[j] == '-' {
		j++
	}
	base := j
	for j < len(s) && isASCIIDigit(s[j]) {
		j++
	}
	if j == base {
		return 0, false
	}
	// Thousands groups only follow a leading group of at most three digits,
	// and a group trailed by a fourth digit is not a group at all.
	if j-base <= 3 {
		for j+3 < len(s) && s[j] == ',' &&
			isASCIIDigit(s[j+1]) && isASCIIDigit(s[j+2]) && isASCIIDigit(s[j+3]) &&
			!(j+4 < len(s) && isASCIIDigit(s[j+4])) {
			j += 4
		}
	}
	// A decimal point counts only when at least one digit follows, so
	// "100." stays the number 100 followed by a dot.
	if j+1 < len(s) && s[j] == '.' && isASCIIDigit(s[j+1]) {
		j += 2
		for j < len(s) && isASCIIDigit(s[j]) {
			j++
		}
	}
	if !standaloneAfter(s, j) {
		return 0, false
	}
	return j, true
}

// standaloneAfter reports whether a literal ending at j is properly bounded
// on the right: the next rune must not be a letter, digit or underscore,
// and a '.' bounds it only when no digit follows, so "1.2.3" never yields
// a number.
func standaloneAfter(s string, j int) bool {
	if j >= len(s) {
		return true
	}
	r, size := utf8.DecodeRuneInString(s[j:])
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		return false
	}
	if r == '.' && j+size < len(s) && isASCIIDigit(s[j+size]) {
		return false
	}
	return true
}

// scanRun consumes the identifier-like run around a failed numeric
// candidate, gluing "123abc", "1.2.3" or "1,234x" into a single word.
// Separator runes stay in the run only while they join further identifier
// characters; a trailing separator belongs to the surrounding text. When
// nothing else matches, the run is the single rune at i.
func scanRun(s string, i int) int {
	j := i
loop:
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			j += size
		case r == '.' || r == ',' || r == '+' || r == '-':
			next := j + size
			if next >= len(s) {
				break loop
			}
			nr, _ := utf8.DecodeRuneInString(s[next:])
			if !unicode.IsLetter(nr) && !unicode.IsDigit(nr) && nr != '_' {
				break loop
			}
			j += size
		default:
			break loop
		}
	}
	if j == i {
		_, size := utf8.DecodeRuneInString(s[i:])
		return i + size
	}
	return j
}
