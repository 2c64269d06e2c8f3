package calc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp    // + - * / ^ ! %
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string // operators are normalized to ASCII
	pos  int    // byte offset in the input
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// operator aliases accepted from calculator keypads.
var opAliases = map[rune]string{
	'×': "*",
	'÷': "/",
	'−': "-", // U+2212 minus sign
	'+': "+",
	'-': "-",
	'*': "*",
	'/': "/",
	'^': "^",
	'!': "!",
	'%': "%",
}

// tokenize splits src into tokens ending with tokEOF.
func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			end := scanNumber(src, i)
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		case r == 'π':
			toks = append(toks, token{kind: tokIdent, text: "π", pos: i})
			i += size
		case unicode.IsLetter(r):
			end := i
			for end < len(src) {
				c, n := utf8.DecodeRuneInString(src[end:])
				if !unicode.IsLetter(c) && !isDigit(c) || c == 'π' {
					break
				}
				end += n
			}
			toks = append(toks, token{kind: tokIdent, text: strings.ToLower(src[i:end]), pos: i})
			i = end
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i += size
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i += size
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i += size
		default:
			op, ok := opAliases[r]
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, r, i)
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += size
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// scanNumber returns the end of the number starting at i: digits with an
// optional fraction and an optional exponent. An 'e' not followed by digits
// is left for the identifier scanner, so "2e" lexes as 2 then e.
func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(rune(src[i])) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(rune(src[i])) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(rune(src[j])) {
			for j < len(src) && isDigit(rune(src[j])) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
