package query

import (
	"regexp"
	"strings"

	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

// operatorToken matches a boolean/proximity operator word, optionally with a
// numeric span suffix (ADJ5, NEAR/3).
var operatorToken = regexp.MustCompile(`^(?:AND|OR|NOT|XOR|NEAR(?:/\d+)?|ADJ\d*|SAME|WITH)$`)

// dateValue matches the accepted YYYY-MM-DD / YYYYMMDD input formats.
var dateValue = regexp.MustCompile(`^(?:\d{8}|\d{4}-\d{2}-\d{2})$`)

// ValidateConditionText runs the local syntax checks on a single text
// condition: unmatched parentheses, unmatched quotes, a trailing boolean
// operator, and consecutive operators.  A nil return means the text is
// acceptable for assembly; errors are surfaced inline next to the condition
// and suppress regeneration for the whole form until resolved.
func ValidateConditionText(text string) *errors.AppError {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	depth := 0
	inQuote := false
	for _, r := range trimmed {
		switch r {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
				if depth < 0 {
					return errors.New(errors.ErrCodeQuerySyntax, "unmatched closing parenthesis")
				}
			}
		}
	}
	if depth != 0 {
		return errors.New(errors.ErrCodeQuerySyntax, "unmatched opening parenthesis")
	}
	if inQuote {
		return errors.New(errors.ErrCodeQuerySyntax, "unmatched quote")
	}

	// A leading operator word is deliberately not rejected: the USPTO
	// assembler folds it into the phrase ("NEAR field communication").
	words := strings.Fields(trimmed)
	if isOperatorWord(words[len(words)-1]) {
		return errors.New(errors.ErrCodeQuerySyntax, "query ends with an operator")
	}
	for i := 1; i < len(words); i++ {
		if isOperatorWord(words[i-1]) && isOperatorWord(words[i]) {
			return errors.New(errors.ErrCodeQuerySyntax, "consecutive operators").
				WithDetail(words[i-1] + " " + words[i])
		}
	}
	return nil
}

func isOperatorWord(w string) bool {
	return operatorToken.MatchString(strings.ToUpper(strings.Trim(w, "()")))
}

// ValidateDate checks a date filter value.  Accepted formats are YYYY-MM-DD
// and YYYYMMDD; empty strings are valid (filter unset).
func ValidateDate(s string) *errors.AppError {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !dateValue.MatchString(strings.TrimSpace(s)) {
		return errors.New(errors.ErrCodeQueryInvalidDate, "date must be in YYYY-MM-DD or YYYYMMDD format").
			WithDetail(s)
	}
	return nil
}

//Personal.AI order the ending
