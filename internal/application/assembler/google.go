package assembler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	domainquery "github.com/turtacn/PatQuery-Bridge/internal/domain/query"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

const googleBaseURL = "https://patents.google.com/"

var (
	fieldAssignPattern = regexp.MustCompile(`^[A-Za-z]+\s*=\s*.*$`)
	cpcOrTitlePrefix   = regexp.MustCompile(`(?i)^(cpc|title):`)
	booleanKeywords    = map[string]bool{"AND": true, "OR": true, "NOT": true}
	operatorKeywords   = map[string]bool{
		"AND": true, "OR": true, "NOT": true,
		"NEAR": true, "ADJ": true, "WITH": true, "SAME": true,
	}
)

// formatScopedContent emits SCOPE=(value), leaving content that is already a
// quoted phrase or a parenthesized group as-is: SCOPE="exact phrase",
// SCOPE=(A OR B).
func formatScopedContent(scopePrefix, content string) string {
	if (strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`)) ||
		(strings.HasPrefix(content, "(") && strings.HasSuffix(content, ")")) {
		return scopePrefix + "=" + content
	}
	return scopePrefix + "=(" + content + ")"
}

// googleConditionFragment serializes one condition into its Google query
// fragment.  A blank or unusable condition yields the empty string.
func googleConditionFragment(c types.SearchCondition) string {
	switch c.Type {
	case types.ConditionText:
		return googleTextFragment(c.Text)
	case types.ConditionClassification:
		if c.Classification == nil {
			return ""
		}
		code := strings.TrimSpace(c.Classification.CPC)
		if code == "" {
			return ""
		}
		return "cpc:" + strings.ReplaceAll(code, "/", "")
	case types.ConditionChemistry:
		return googleChemistryFragment(c.Chemistry)
	case types.ConditionMeasure:
		return googleMeasureFragment(c.Measure)
	case types.ConditionNumbers:
		return googleNumbersFragment(c.Numbers)
	default:
		return ""
	}
}

func googleTextFragment(d *types.TextData) string {
	if d == nil {
		return ""
	}
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return ""
	}
	rawTerms := strings.Fields(text)
	if len(rawTerms) == 0 {
		return ""
	}

	scopes := domainquery.NormalizeScopes(d.SelectedScopes)
	op := d.TermOperator
	if op == "" {
		op = types.TermAll
	}

	var contentTerms []string
	switch op {
	case types.TermExact:
		contentTerms = []string{text}
	case types.TermNone:
		contentTerms = rawTerms
	default:
		for _, t := range rawTerms {
			if !booleanKeywords[strings.ToUpper(t)] {
				contentTerms = append(contentTerms, t)
			}
		}
		if len(contentTerms) == 0 && op == types.TermAll {
			// Every word was a boolean keyword; keep the text whole.
			contentTerms = []string{text}
		}
	}
	if len(contentTerms) == 0 {
		return ""
	}

	var combined string
	switch op {
	case types.TermExact:
		combined = `"` + text + `"`
	case types.TermAny:
		combined = strings.Join(contentTerms, " OR ")
		if len(contentTerms) > 1 {
			combined = "(" + combined + ")"
		}
	case types.TermNone:
		negated := make([]string, 0, len(contentTerms))
		for _, t := range contentTerms {
			if strings.Contains(t, " ") {
				negated = append(negated, `-"`+t+`"`)
			} else {
				negated = append(negated, "-"+t)
			}
		}
		combined = strings.Join(negated, " ")
	default: // ALL
		if len(contentTerms) == 1 &&
			(strings.Contains(contentTerms[0], " ") || operatorKeywords[strings.ToUpper(contentTerms[0])]) {
			combined = `"` + contentTerms[0] + `"`
		} else {
			combined = strings.Join(contentTerms, " ")
		}
	}
	if combined == "" {
		return ""
	}

	nonFT := make([]types.TextScope, 0, len(scopes))
	for _, s := range scopes {
		if s != types.ScopeFullText {
			nonFT = append(nonFT, s)
		}
	}
	if len(nonFT) == 0 {
		return combined
	}
	return scopeTextFragment(nonFT, combined, op, contentTerms)
}

// scopeTextFragment applies the selected non-FT scopes to an already combined
// term expression.  TI+AB+CL together collapse into the TAC pseudo-scope, and
// a CPC scope under the ANY operator with multiple single-word codes expands
// into one CPC=() clause per code.
func scopeTextFragment(scopes []types.TextScope, combined string, op types.TermOperator, contentTerms []string) string {
	hasTI, hasAB, hasCL, hasCPC := false, false, false, false
	for _, s := range scopes {
		switch s {
		case types.ScopeTitle:
			hasTI = true
		case types.ScopeAbstract:
			hasAB = true
		case types.ScopeClaims:
			hasCL = true
		case types.ScopeCPC:
			hasCPC = true
		}
	}
	if hasTI && hasAB && hasCL && len(scopes) == 3 {
		return formatScopedContent("TAC", combined)
	}

	allSingleWord := true
	for _, t := range contentTerms {
		if strings.Contains(t, " ") {
			allSingleWord = false
			break
		}
	}
	specialCPCAny := hasCPC && op == types.TermAny && len(contentTerms) > 1 && allSingleWord

	var tacParts, cpcAnyParts, generalCPC []string
	for _, s := range scopes {
		switch {
		case s == types.ScopeCPC && specialCPCAny:
			for _, code := range contentTerms {
				cpcAnyParts = append(cpcAnyParts, "CPC=("+code+")")
			}
		case s == types.ScopeTitle || s == types.ScopeAbstract || s == types.ScopeClaims:
			tacParts = append(tacParts, formatScopedContent(string(s), combined))
		case s == types.ScopeCPC:
			generalCPC = append(generalCPC, formatScopedContent(string(s), combined))
		}
	}

	var segments []string
	if len(tacParts) > 1 {
		segments = append(segments, "("+strings.Join(tacParts, " OR ")+")")
	} else if len(tacParts) == 1 {
		segments = append(segments, tacParts[0])
	}
	segments = append(segments, generalCPC...)
	if len(cpcAnyParts) > 1 {
		segments = append(segments, "("+strings.Join(cpcAnyParts, " OR ")+")")
	} else if len(cpcAnyParts) == 1 {
		segments = append(segments, cpcAnyParts[0])
	}

	if len(segments) == 0 {
		return combined
	}
	joined := strings.Join(segments, " OR ")
	if len(segments) > 1 {
		return "(" + joined + ")"
	}
	return joined
}

func googleChemistryFragment(d *types.ChemistryData) string {
	if d == nil {
		return ""
	}
	term := strings.TrimSpace(d.Term)
	if term == "" {
		return ""
	}

	var part string
	switch d.Operator {
	case types.ChemSimilar:
		part = "~(" + term + ")"
	case types.ChemSubstructure:
		part = "SSS=(" + term + ")"
	case types.ChemSMARTS:
		part = "SMARTS=(" + term + ")"
	default: // EXACT covers both "Exact" and "Exact Batch" UI labels
		if strings.Contains(term, " ") {
			part = `"` + term + `"`
		} else {
			part = term
		}
	}

	// Structure searches already name their search domain.
	if d.Operator == types.ChemSubstructure || d.Operator == types.ChemSMARTS {
		return part
	}
	if d.DocScope == types.ChemScopeClaimsOnly {
		return formatScopedContent("CL", part)
	}
	return part
}

func googleMeasureFragment(d *types.MeasureData) string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if m := strings.TrimSpace(d.Measurements); m != "" {
		parts = append(parts, m)
	}
	if u := strings.TrimSpace(d.UnitsConcepts); u != "" {
		parts = append(parts, u)
	}
	if len(parts) == 0 {
		return ""
	}
	return formatScopedContent("MEASURE", strings.Join(parts, " "))
}

func googleNumbersFragment(d *types.NumbersData) string {
	if d == nil {
		return ""
	}
	ids := splitDocIDs(d.DocIDsText)
	if len(ids) == 0 {
		return ""
	}
	processed := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), "patent/") {
			processed = append(processed, "("+id+")")
		} else {
			processed = append(processed, "(patent/"+id+")")
		}
	}
	if len(processed) == 1 {
		return processed[0]
	}
	return "(" + strings.Join(processed, " OR ") + ")"
}

func splitDocIDs(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// isCompleteDisplayUnit decides whether a q-term already reads as one unit in
// the display string or needs wrapping parentheses.
func isCompleteDisplayUnit(term string) bool {
	lower := strings.ToLower(term)
	switch {
	case fieldAssignPattern.MatchString(term):
		return true
	case strings.HasPrefix(term, `"`) && strings.HasSuffix(term, `"`):
		return true
	case strings.HasPrefix(term, "(") && strings.HasSuffix(term, ")") &&
		(strings.Contains(term, " OR ") ||
			strings.HasPrefix(lower, "(patent/") ||
			strings.HasPrefix(lower, "(application-exact/")):
		return true
	case cpcOrTitlePrefix.MatchString(term):
		return true
	case strings.HasPrefix(term, "~("):
		return true
	}
	return false
}

// assembleGoogle builds the Google Patents display string and URL.  URL
// parameter order is fixed: q terms, country, language, inventor, assignee,
// after, before, status, ptype, litigation.
func assembleGoogle(conditions []types.SearchCondition, common types.CommonFields) (*Result, error) {
	var qTerms []string
	for _, c := range conditions {
		if frag := googleConditionFragment(c); frag != "" {
			qTerms = append(qTerms, frag)
		}
	}

	if cpc := strings.TrimSpace(common.CPC); cpc != "" {
		qTerms = append(qTerms, "cpc:"+strings.ReplaceAll(cpc, "/", ""))
	}
	if title := strings.TrimSpace(common.SpecificTitle); title != "" {
		qTerms = append(qTerms, `title:("`+title+`")`)
	}
	if docID := strings.TrimSpace(common.DocumentID); docID != "" {
		switch {
		case strings.HasPrefix(strings.ToLower(docID), "patent/"):
			qTerms = append(qTerms, "("+docID+")")
		case strings.ContainsAny(docID, `" ()`):
			qTerms = append(qTerms, docID)
		default:
			qTerms = append(qTerms, `"`+docID+`"`)
		}
	}

	var params []param
	var displayQ, displayFields []string

	for _, term := range qTerms {
		params = append(params, param{"q", term})
		if isCompleteDisplayUnit(term) {
			displayQ = append(displayQ, term)
		} else {
			displayQ = append(displayQ, "("+term+")")
		}
	}

	if codes := cleanUpperList(common.PatentOffices); len(codes) > 0 {
		joined := strings.Join(codes, ",")
		params = append(params, param{"country", joined})
		displayFields = append(displayFields, "country:"+joined)
	}
	if langs := cleanUpperList(common.Languages); len(langs) > 0 {
		joined := strings.Join(langs, ",")
		params = append(params, param{"language", joined})
		displayFields = append(displayFields, "language:"+joined)
	}
	for _, inv := range cleanEntries(common.Inventors) {
		params = append(params, param{"inventor", inv})
		displayFields = append(displayFields, "inventor:"+inv)
	}
	for _, asg := range cleanEntries(common.Assignees) {
		params = append(params, param{"assignee", asg})
		displayFields = append(displayFields, "assignee:"+asg)
	}

	dateType := common.DateType
	if dateType == "" {
		dateType = types.DatePublication
	}
	if !dateType.Valid() {
		return nil, errors.New(errors.ErrCodeQueryInvalidDateType, "invalid date type").
			WithDetail(string(dateType))
	}
	if from := strings.TrimSpace(common.DateFrom); from != "" {
		value := string(dateType) + ":" + strings.ReplaceAll(from, "-", "")
		params = append(params, param{"after", value})
		displayFields = append(displayFields, "after:"+value)
	}
	if to := strings.TrimSpace(common.DateTo); to != "" {
		value := string(dateType) + ":" + strings.ReplaceAll(to, "-", "")
		params = append(params, param{"before", value})
		displayFields = append(displayFields, "before:"+value)
	}

	if status := strings.ToUpper(strings.TrimSpace(common.Status)); status != "" {
		params = append(params, param{"status", status})
		displayFields = append(displayFields, "status:"+status)
	}
	if ptype := strings.ToUpper(strings.TrimSpace(common.PatentType)); ptype != "" {
		params = append(params, param{"ptype", ptype})
		displayFields = append(displayFields, "type:"+ptype)
	}
	if lit := strings.TrimSpace(common.Litigation); lit != "" {
		normalized := strings.ReplaceAll(strings.ToUpper(lit), " ", "_")
		var litParam string
		switch normalized {
		case "YES", "HAS_RELATED_LITIGATION":
			litParam = "YES"
		case "NO", "NO_KNOWN_LITIGATION":
			litParam = "NO"
		default:
			return nil, errors.New(errors.ErrCodeQueryInvalidLitigation, "invalid litigation value").
				WithDetail(lit)
		}
		params = append(params, param{"litigation", litParam})
		displayFields = append(displayFields, "litigation:"+litParam)
	}

	display := strings.TrimSpace(strings.Join(append(displayQ, displayFields...), " "))
	if len(params) == 0 {
		return emptyResult(), nil
	}
	return &Result{
		DisplayString: display,
		URL:           googleBaseURL + "?" + encodeParams(params, false),
	}, nil
}

// param is one URL query parameter; ordered, repeatable.
type param struct {
	key, value string
}

// encodeParams keeps insertion order.  percentSpaces escapes spaces as %20
// (USPTO style) instead of + (Google style).
func encodeParams(params []param, percentSpaces bool) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		v := url.QueryEscape(p.value)
		if percentSpaces {
			v = strings.ReplaceAll(v, "+", "%20")
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", p.key, v))
	}
	return strings.Join(pairs, "&")
}

func cleanUpperList(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, strings.ToUpper(t))
		}
	}
	return out
}

func cleanEntries(entries []types.DynamicEntry) []string {
	var out []string
	for _, e := range entries {
		if t := strings.TrimSpace(e.Value); t != "" {
			out = append(out, t)
		}
	}
	return out
}

//Personal.AI order the ending
