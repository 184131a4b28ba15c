// Package parser turns raw query strings of either dialect into the
// dialect-neutral query tree.  Both parsers are resilient by contract: any
// input yields a tree, with unparseable input collapsing into a single term
// carrying a PARSE_ERROR marker rather than an error return.
package parser

import "strings"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokQuoted
	tokWord
)

type token struct {
	kind tokenKind
	text string
}

// lex splits a query string into parentheses, quoted phrases, and words.
// Words are maximal runs of non-space characters excluding parentheses and
// quotes, so "TI=(solar cell)" lexes as TI= ( solar cell ).
func lex(input string) []token {
	var toks []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			toks = append(toks, token{tokQuoted, string(runes[i+1 : j])})
			if j < len(runes) {
				j++
			}
			i = j
		default:
			j := i
			for j < len(runes) {
				c := runes[j]
				if c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
					c == '(' || c == ')' || c == '"' {
					break
				}
				j++
			}
			toks = append(toks, token{tokWord, string(runes[i:j])})
			i = j
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks
}

// cursor is the shared token stream walker for both dialect parsers.
type cursor struct {
	toks []token
	pos  int
}

func (c *cursor) peek() token { return c.toks[c.pos] }

func (c *cursor) next() token {
	t := c.toks[c.pos]
	if t.kind != tokEOF {
		c.pos++
	}
	return t
}

func (c *cursor) atWord(texts ...string) bool {
	t := c.peek()
	if t.kind != tokWord {
		return false
	}
	for _, w := range texts {
		if strings.EqualFold(t.text, w) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
