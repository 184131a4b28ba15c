package assembler

import (
	"regexp"
	"strconv"
	"strings"

	domainquery "github.com/turtacn/PatQuery-Bridge/internal/domain/query"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

const usptoBaseURL = "https://ppubs.uspto.gov/pubwebapp/external.html"

var (
	usptoOperatorPattern = regexp.MustCompile(`(?i)\b(AND|OR|ADJ|NEAR|WITH|SAME|XOR)(\d*)\b`)

	usptoOperatorWords = map[string]bool{
		"AND": true, "OR": true, "ADJ": true, "NEAR": true,
		"WITH": true, "SAME": true, "XOR": true,
	}
	usptoJoinOperators = map[string]bool{
		"OR": true, "ADJ": true, "NEAR": true, "SAME": true, "WITH": true,
	}
	patentNumberSuffixes = []string{".pn.", ".app.", ".did."}
)

// usptoScopeField maps a text scope onto the Patent Public Search field prefix.
var usptoScopeField = map[types.TextScope]string{
	types.ScopeTitle:    "TTL",
	types.ScopeAbstract: "ABST",
	types.ScopeClaims:   "ACLM",
	types.ScopeCPC:      "CPC",
}

// containsUSPTOOperator reports whether the text carries any boolean or
// proximity operator word, including the numbered ADJn/NEARn forms.
func containsUSPTOOperator(text string) bool {
	return usptoOperatorPattern.MatchString(text)
}

// multiWordJoin picks the operator used to join the words of an unstructured
// multi-word phrase.  The session default operator is honored when it is a
// joinable operator; AND (the engine default) and anything unrecognized fall
// back to ADJ, Patent Public Search's phrase operator.
func multiWordJoin(settings types.USPTOSettings) string {
	op := strings.ToUpper(strings.TrimSpace(settings.DefaultOperator))
	if usptoJoinOperators[op] {
		return op
	}
	return "ADJ"
}

// formatUSPTOPhrase turns free text into a single USPTO expression, preserving
// user structure where it exists and joining plain words with joinOp.
func formatUSPTOPhrase(text, joinOp string) string {
	current := strings.TrimSpace(text)
	if current == "" {
		return ""
	}
	words := strings.Fields(current)

	alreadyGrouped := (strings.HasPrefix(current, "(") && strings.HasSuffix(current, ")")) ||
		(strings.HasPrefix(current, `"`) && strings.HasSuffix(current, `"`))
	if alreadyGrouped {
		return current
	}

	if containsUSPTOOperator(current) {
		// A leading operator word over an otherwise unstructured phrase is
		// treated as part of the phrase ("NEAR field communication").
		firstIsOp := len(words) > 0 && usptoOperatorWords[strings.ToUpper(words[0])]
		if firstIsOp && len(words) > 1 && !containsUSPTOOperator(strings.Join(words[1:], " ")) {
			return "(" + strings.Join(words, " "+joinOp+" ") + ")"
		}

		// Long plain phrases whose only operators are one or two bare AND/OR
		// words are joined wholesale rather than honored as structure.
		if !strings.ContainsAny(current, "()") && len(words) >= 7 {
			matches := usptoOperatorPattern.FindAllStringSubmatch(current, -1)
			allWeak := len(matches) > 0
			for _, m := range matches {
				op := strings.ToUpper(m[1])
				if (op != "AND" && op != "OR") || m[2] != "" {
					allWeak = false
					break
				}
			}
			if allWeak && len(matches) <= 2 {
				return "(" + strings.Join(words, " "+joinOp+" ") + ")"
			}
		}
		return current
	}

	if len(words) > 1 {
		return "(" + strings.Join(words, " "+joinOp+" ") + ")"
	}
	return current
}

// applyUSPTOScope wraps an expression with a FIELD/ prefix.  Expressions that
// are already self-contained (parenthesized or quoted) attach directly;
// anything else is parenthesized first.
func applyUSPTOScope(field, expr string) string {
	if expr == "" {
		return ""
	}
	selfContained := (strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")")) ||
		(strings.HasPrefix(expr, `"`) && strings.HasSuffix(expr, `"`))
	if selfContained || len(strings.Fields(expr)) == 1 {
		return field + "/" + expr
	}
	return field + "/(" + expr + ")"
}

func usptoTextFragment(d *types.TextData, settings types.USPTOSettings) string {
	if d == nil {
		return ""
	}
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return ""
	}
	terms := strings.Fields(text)
	joinOp := multiWordJoin(settings)

	op := d.TermOperator
	if op == "" {
		op = types.TermAll
	}

	var combined string
	switch op {
	case types.TermExact:
		combined = `"` + strings.ReplaceAll(text, `"`, `\"`) + `"`
		if combined == `""` {
			return ""
		}
	case types.TermAny:
		combined = strings.Join(terms, " OR ")
		if len(terms) > 1 {
			combined = "(" + combined + ")"
		}
	case types.TermNone:
		if len(terms) > 1 {
			combined = "NOT (" + strings.Join(terms, " OR ") + ")"
		} else {
			combined = "NOT " + terms[0]
		}
	default: // ALL
		combined = formatUSPTOPhrase(text, joinOp)
	}
	if combined == "" {
		return ""
	}

	scopes := domainquery.NormalizeScopes(d.SelectedScopes)
	var scoped []string
	for _, s := range scopes {
		if s == types.ScopeFullText {
			return combined
		}
		if field, ok := usptoScopeField[s]; ok {
			scoped = append(scoped, applyUSPTOScope(field, combined))
		}
	}
	if len(scoped) == 0 {
		return combined
	}
	if len(scoped) == 1 {
		return scoped[0]
	}
	return "(" + strings.Join(scoped, " OR ") + ")"
}

// usptoNameFragment emits a person/company name with the legacy dot-delimited
// field suffix (.in. for inventors, .as. for assignees).
func usptoNameFragment(name, fieldCode, joinOp string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	words := strings.Fields(name)

	var processed string
	switch {
	case containsUSPTOOperator(name):
		processed = name
	case len(words) > 1:
		processed = "(" + strings.Join(words, " "+joinOp+" ") + ")"
	default:
		processed = name
	}

	selfContained := strings.HasPrefix(processed, "(") && strings.HasSuffix(processed, ")")
	singleWord := len(strings.Fields(processed)) == 1 && isAlphanumeric(processed)
	if selfContained || singleWord {
		return processed + "." + fieldCode + "."
	}
	return "(" + processed + ")." + fieldCode + "."
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

// usptoNumbersFragment serializes a document-number list.  Plain numbers
// collapse into the compact (a|b).pn. form; entries already carrying a field
// suffix or operator structure are preserved and OR-joined.
func usptoNumbersFragment(d *types.NumbersData) string {
	if d == nil {
		return ""
	}
	ids := splitDocIDs(d.DocIDsText)
	if len(ids) == 0 {
		return ""
	}

	hasFieldSuffix := func(s string) bool {
		lower := strings.ToLower(s)
		for _, suffix := range patentNumberSuffixes {
			if strings.Contains(lower, suffix) {
				return true
			}
		}
		return false
	}

	if len(ids) == 1 {
		id := ids[0]
		if hasFieldSuffix(id) {
			return id
		}
		return "(" + id + ").pn."
	}

	needsORJoin := false
	for _, id := range ids {
		if hasFieldSuffix(id) || containsUSPTOOperator(id) {
			needsORJoin = true
			break
		}
	}
	if !needsORJoin {
		return "(" + strings.Join(ids, "|") + ").pn."
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		structured := hasFieldSuffix(id) || containsUSPTOOperator(id) ||
			(strings.HasPrefix(id, "(") && strings.HasSuffix(id, ")"))
		if !structured {
			id = "(" + id + ").pn."
		}
		if (strings.HasPrefix(id, "(") && strings.HasSuffix(id, ")")) || containsUSPTOOperator(id) {
			parts = append(parts, id)
		} else {
			parts = append(parts, "("+id+")")
		}
	}
	return strings.Join(parts, " OR ")
}

func usptoConditionFragment(c types.SearchCondition, settings types.USPTOSettings) string {
	joinOp := multiWordJoin(settings)
	switch c.Type {
	case types.ConditionText:
		return usptoTextFragment(c.Text, settings)
	case types.ConditionClassification:
		if c.Classification == nil {
			return ""
		}
		code := strings.ReplaceAll(strings.TrimSpace(c.Classification.CPC), " ", "")
		if code == "" {
			return ""
		}
		return "CPC/" + code
	case types.ConditionChemistry:
		if c.Chemistry == nil {
			return ""
		}
		term := strings.TrimSpace(c.Chemistry.Term)
		if term == "" {
			return ""
		}
		expr := term
		if strings.Contains(term, " ") {
			expr = `"` + term + `"`
		}
		if c.Chemistry.DocScope == types.ChemScopeClaimsOnly {
			return applyUSPTOScope("ACLM", expr)
		}
		return expr
	case types.ConditionMeasure:
		if c.Measure == nil {
			return ""
		}
		parts := make([]string, 0, 2)
		if m := strings.TrimSpace(c.Measure.Measurements); m != "" {
			parts = append(parts, m)
		}
		if u := strings.TrimSpace(c.Measure.UnitsConcepts); u != "" {
			parts = append(parts, u)
		}
		if len(parts) == 0 {
			return ""
		}
		return formatUSPTOPhrase(strings.Join(parts, " "), joinOp)
	case types.ConditionNumbers:
		return usptoNumbersFragment(c.Numbers)
	default:
		return ""
	}
}

// usptoDateField maps the common date-type selector onto a Patent Public
// Search date field code: filing dates query APD, priority dates PRD, and
// publication dates the issue date field ISD.
func usptoDateField(dt types.DateType) string {
	switch dt {
	case types.DateFiling:
		return "APD"
	case types.DatePriority:
		return "PRD"
	default:
		return "ISD"
	}
}

// formatUSPTODate reformats YYYY-MM-DD / YYYYMMDD to the engine's
// non-zero-padded M/D/YYYY form.
func formatUSPTODate(s string) string {
	s = strings.TrimSpace(s)
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) != 8 {
		return s
	}
	year := digits[0:4]
	month, _ := strconv.Atoi(digits[4:6])
	day, _ := strconv.Atoi(digits[6:8])
	return strconv.Itoa(month) + "/" + strconv.Itoa(day) + "/" + year
}

// setDirectives renders the session settings as the SET prefix.  The engine
// default operator AND is left implicit; Plural and BritishEquivalent are
// always stated.
func setDirectives(settings types.USPTOSettings) string {
	var directives []string
	op := strings.ToUpper(strings.TrimSpace(settings.DefaultOperator))
	if op != "" && op != "AND" {
		directives = append(directives, "DefaultOperator="+op)
	}
	if settings.Plurals {
		directives = append(directives, "Plural=ON")
	} else {
		directives = append(directives, "Plural=OFF")
	}
	if settings.BritishEquivalents {
		directives = append(directives, "BritishEquivalent=ON")
	} else {
		directives = append(directives, "BritishEquivalent=OFF")
	}
	return "SET " + strings.Join(directives, ",")
}

// assembleUSPTO builds the Patent Public Search display string and URL.
// Fragment order is fixed: conditions, date-from, date-to, inventors,
// assignees, classification, specific title, document id.
func assembleUSPTO(conditions []types.SearchCondition, common types.CommonFields, settings types.USPTOSettings) (*Result, error) {
	joinOp := multiWordJoin(settings)

	var fragments []string
	for _, c := range conditions {
		if frag := usptoConditionFragment(c, settings); frag != "" {
			fragments = append(fragments, frag)
		}
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
		fragments = append(fragments, "@"+usptoDateField(dateType)+">="+formatUSPTODate(from))
	}
	if to := strings.TrimSpace(common.DateTo); to != "" {
		fragments = append(fragments, "@"+usptoDateField(dateType)+"<="+formatUSPTODate(to))
	}

	if names := cleanEntries(common.Inventors); len(names) > 0 {
		fragments = append(fragments, orJoinNames(names, "in", joinOp))
	}
	if names := cleanEntries(common.Assignees); len(names) > 0 {
		fragments = append(fragments, orJoinNames(names, "as", joinOp))
	}
	if cpc := strings.ReplaceAll(strings.TrimSpace(common.CPC), " ", ""); cpc != "" {
		fragments = append(fragments, "CPC/"+cpc)
	}
	if title := strings.TrimSpace(common.SpecificTitle); title != "" {
		fragments = append(fragments, applyUSPTOScope("TTL", formatUSPTOPhrase(title, joinOp)))
	}
	if docID := strings.TrimSpace(common.DocumentID); docID != "" {
		fragments = append(fragments, docID+".did.")
	}

	if len(fragments) == 0 {
		return emptyResult(), nil
	}

	var queryExpr string
	if len(fragments) == 1 {
		queryExpr = fragments[0]
	} else {
		wrapped := make([]string, 0, len(fragments))
		for _, f := range fragments {
			wrapped = append(wrapped, "("+f+")")
		}
		queryExpr = strings.Join(wrapped, " AND ")
	}

	display := setDirectives(settings) + " " + queryExpr

	params := []param{{"q", display}}
	if dbs := cleanUpperList(settings.SelectedDatabases); len(dbs) > 0 {
		params = append(params, param{"db", strings.Join(dbs, ",")})
	}
	// Pure document-number queries open in id-lookup mode.
	if strings.HasSuffix(strings.ToLower(queryExpr), ".pn.") {
		params = append(params, param{"type", "ids"})
	} else {
		params = append(params, param{"type", "queryString"})
	}

	return &Result{
		DisplayString: display,
		URL:           usptoBaseURL + "?" + encodeParams(params, true),
	}, nil
}

// orJoinNames emits the OR-group of name fragments for one field code.
func orJoinNames(names []string, fieldCode, joinOp string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if frag := usptoNameFragment(n, fieldCode, joinOp); frag != "" {
			parts = append(parts, frag)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

//Personal.AI order the ending
