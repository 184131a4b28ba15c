// Package dialect implements the heuristic format detector that classifies a
// raw query string as Google-style or USPTO-style.  This is a lexical scorer,
// not a grammar: it is total over all string inputs and never fails.
package dialect

import (
	"regexp"
	"strings"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Signature patterns per dialect.  NEAR (Google) and ADJ/SAME/WITH (USPTO)
// are the strongest discriminators and weigh double.
var (
	googleNearOp    = regexp.MustCompile(`(?i)\sNEAR(?:/\d*)?\s`)
	googleFieldTags = regexp.MustCompile(`(?i)\b(?:inventor|assignee|title|abstract|after|before|priority|filing|publication_date|country|status|type):`)

	usptoProximityOps = regexp.MustCompile(`(?i)\s(?:ADJ(?:\d*)?|SAME|WITH)\s`)
	usptoFieldCodes   = regexp.MustCompile(`(?i)\b(?:AN|IN|TTL|ABST|SPEC|ACLM|PN|APD|ISD|PRD|EXP|PTY|LREP|CRCL)/`)
	usptoLegacySuffix = regexp.MustCompile(`(?i)\.[a-z]{2,4}\.`)

	// CPC/ is used by both dialects and only ever acts as a weak tiebreaker.
	cpcPrefix = regexp.MustCompile(`(?i)\bCPC/`)

	plainTextOnly = regexp.MustCompile(`^[a-zA-Z0-9\s"()*\-$?]+$`)
)

// Detect returns the best-guess dialect for a raw query string.
// An empty or whitespace-only input yields DialectUnknown; a tie (including
// the CPC-only case and a zero/zero tie on plain keyword text) defaults to
// Google, patent search's common-case dialect.
func Detect(query string) types.Dialect {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return types.DialectUnknown
	}

	var googleScore, usptoScore float64

	if googleNearOp.MatchString(query) {
		googleScore += 2
	}
	if googleFieldTags.MatchString(query) {
		googleScore++
	}

	if usptoProximityOps.MatchString(query) {
		usptoScore += 2
	}
	if usptoFieldCodes.MatchString(query) {
		usptoScore++
	}
	if usptoLegacySuffix.MatchString(query) {
		usptoScore++
	}

	cpcPresent := cpcPrefix.MatchString(query)
	if cpcPresent {
		googleScore += 0.5
		usptoScore += 0.5
	}

	switch {
	case googleScore > usptoScore:
		return types.DialectGoogle
	case usptoScore > googleScore:
		return types.DialectUSPTO
	}

	// Scores are tied from here on.
	if googleScore > 0 {
		// Either real signals on both sides or the CPC-only 0.5/0.5 case.
		return types.DialectGoogle
	}
	if plainTextOnly.MatchString(trimmed) {
		// Bare keywords, quotes, parens, wildcards: valid in both engines.
		return types.DialectGoogle
	}
	return types.DialectUnknown
}

//Personal.AI order the ending
