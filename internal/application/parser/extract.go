package parser

import (
	"strings"

	"github.com/google/uuid"

	"github.com/turtacn/PatQuery-Bridge/internal/application/generator"
	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Extract folds a parsed query tree back into the structured builder state:
// recognized fielded nodes populate the common fields, everything else becomes
// search conditions rendered in the source dialect.  The result always carries
// at least one condition so the form never comes back empty.
func Extract(root *ast.QueryRoot, dialect types.Dialect) *types.ParseResponse {
	resp := &types.ParseResponse{
		SearchConditions: []types.SearchCondition{},
		GoogleLikeFields: types.NewCommonFields(),
		USPTOSettings:    types.DefaultUSPTOSettings(),
	}
	if root != nil {
		applySettings(&resp.USPTOSettings, root.Settings)
	}
	if root == nil || root.Query == nil {
		resp.SearchConditions = append(resp.SearchConditions, types.NewTextCondition())
		return resp
	}

	var leftovers []ast.Node
	for _, operand := range topLevelOperands(root.Query) {
		if !extractOperand(operand, dialect, resp) {
			leftovers = append(leftovers, operand)
		}
	}

	// Consecutive bare terms came from one text box and fold back into a
	// single condition; grouped subexpressions each get their own.
	var run []ast.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		node := run[0]
		if len(run) > 1 {
			node = &ast.BooleanOp{Operator: ast.OpAnd, Operands: run}
		}
		if cond, ok := textCondition(node, dialect); ok {
			resp.SearchConditions = append(resp.SearchConditions, cond)
		}
		run = nil
	}
	for _, node := range leftovers {
		if _, isTerm := node.(*ast.Term); isTerm {
			run = append(run, node)
			continue
		}
		flush()
		if cond, ok := textCondition(node, dialect); ok {
			resp.SearchConditions = append(resp.SearchConditions, cond)
		}
	}
	flush()
	if len(resp.SearchConditions) == 0 {
		resp.SearchConditions = append(resp.SearchConditions, types.NewTextCondition())
	}
	return resp
}

// topLevelOperands unrolls a top-level AND into its operands; any other node
// is a single operand.
func topLevelOperands(node ast.Node) []ast.Node {
	if b, ok := node.(*ast.BooleanOp); ok && b.Operator == ast.OpAnd {
		return b.Operands
	}
	return []ast.Node{node}
}

// extractOperand routes one top-level operand into the structured fields.  A
// false return means the operand stays in the free-text remainder.
func extractOperand(node ast.Node, dialect types.Dialect, resp *types.ParseResponse) bool {
	switch n := node.(type) {
	case *ast.Term:
		if n.Value == generator.EmptyTermValue {
			return true
		}
		if strings.EqualFold(n.Value, "is:litigated") {
			resp.GoogleLikeFields.Litigation = "YES"
			return true
		}
		return false

	case *ast.DateSearch:
		return extractDate(n, resp)

	case *ast.FieldedSearch:
		return extractFielded(n, dialect, resp)

	default:
		return false
	}
}

func extractFielded(n *ast.FieldedSearch, dialect types.Dialect, resp *types.ParseResponse) bool {
	value := func() string {
		if term, ok := n.Query.(*ast.Term); ok {
			return term.Value
		}
		return renderText(n.Query, dialect)
	}

	switch n.FieldCanonicalName {
	case ast.FieldInventor:
		resp.GoogleLikeFields.Inventors = append(resp.GoogleLikeFields.Inventors,
			types.NewDynamicEntry(value()))
	case ast.FieldAssignee:
		resp.GoogleLikeFields.Assignees = append(resp.GoogleLikeFields.Assignees,
			types.NewDynamicEntry(value()))
	case ast.FieldCountry:
		for _, code := range strings.Split(value(), ",") {
			if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
				resp.GoogleLikeFields.PatentOffices = append(resp.GoogleLikeFields.PatentOffices, code)
			}
		}
	case ast.FieldLanguage:
		for _, lang := range strings.Split(value(), ",") {
			if lang = strings.ToUpper(strings.TrimSpace(lang)); lang != "" {
				resp.GoogleLikeFields.Languages = append(resp.GoogleLikeFields.Languages, lang)
			}
		}
	case ast.FieldStatus:
		resp.GoogleLikeFields.Status = strings.ToUpper(value())
	case ast.FieldType:
		resp.GoogleLikeFields.PatentType = strings.ToUpper(value())
	case ast.FieldCPC, ast.FieldIPC, ast.FieldUSClass:
		resp.SearchConditions = append(resp.SearchConditions, classificationCondition(n))
	case ast.FieldTitle:
		resp.SearchConditions = append(resp.SearchConditions,
			scopedTextCondition(n.Query, dialect, types.ScopeTitle))
	case ast.FieldAbstract:
		resp.SearchConditions = append(resp.SearchConditions,
			scopedTextCondition(n.Query, dialect, types.ScopeAbstract))
	case ast.FieldClaims:
		resp.SearchConditions = append(resp.SearchConditions,
			scopedTextCondition(n.Query, dialect, types.ScopeClaims))
	case ast.FieldPatentNumber, ast.FieldDocumentID, ast.FieldAppNumber:
		resp.SearchConditions = append(resp.SearchConditions, numbersCondition(n))
	default:
		return false
	}
	return true
}

func extractDate(n *ast.DateSearch, resp *types.ParseResponse) bool {
	dateType := types.DatePublication
	switch n.FieldCanonicalName {
	case ast.DateApplication:
		dateType = types.DateFiling
	case ast.DatePriority:
		dateType = types.DatePriority
	case ast.DatePublication, ast.DateIssue:
		dateType = types.DatePublication
	default:
		return false
	}
	resp.GoogleLikeFields.DateType = dateType

	switch n.Operator {
	case ">=", ">":
		resp.GoogleLikeFields.DateFrom = isoDate(n.DateValue)
		if n.DateValue2 != "" {
			resp.GoogleLikeFields.DateTo = isoDate(n.DateValue2)
		}
	case "<=", "<":
		resp.GoogleLikeFields.DateTo = isoDate(n.DateValue)
	case "=":
		resp.GoogleLikeFields.DateFrom = isoDate(n.DateValue)
		resp.GoogleLikeFields.DateTo = isoDate(n.DateValue)
	default:
		return false
	}
	return true
}

func classificationCondition(n *ast.FieldedSearch) types.SearchCondition {
	cond := types.SearchCondition{
		ID:             uuid.New().String(),
		Type:           types.ConditionClassification,
		Classification: &types.ClassificationData{Option: types.ClassExact},
	}
	switch q := n.Query.(type) {
	case *ast.Classification:
		cond.Classification.CPC = q.Value
		if q.IncludeChildren {
			cond.Classification.Option = types.ClassChildren
		}
	case *ast.Term:
		cond.Classification.CPC = q.Value
	}
	return cond
}

func numbersCondition(n *ast.FieldedSearch) types.SearchCondition {
	var ids []string
	switch q := n.Query.(type) {
	case *ast.Term:
		ids = append(ids, q.Value)
	case *ast.BooleanOp:
		for _, op := range q.Operands {
			if term, ok := op.(*ast.Term); ok {
				ids = append(ids, term.Value)
			}
		}
	}
	numberType := types.NumberEither
	if n.FieldCanonicalName == ast.FieldAppNumber {
		numberType = types.NumberApplication
	}
	cond := types.SearchCondition{
		ID:   uuid.New().String(),
		Type: types.ConditionNumbers,
		Numbers: &types.NumbersData{
			DocIDsText: strings.Join(ids, "\n"),
			NumberType: numberType,
		},
	}
	return cond
}

func scopedTextCondition(query ast.Node, dialect types.Dialect, scope types.TextScope) types.SearchCondition {
	cond := types.NewTextConditionWithText(renderText(query, dialect))
	cond.Text.SelectedScopes = []types.TextScope{scope}
	if term, ok := query.(*ast.Term); ok && term.IsPhrase {
		cond.Text.TermOperator = types.TermExact
	}
	return cond
}

// textCondition renders a leftover operand as a free-text condition.  Parse
// errors surface on the condition so the caller can show them in place.
func textCondition(node ast.Node, dialect types.Dialect) (types.SearchCondition, bool) {
	if term, ok := node.(*ast.Term); ok {
		if strings.HasPrefix(term.Value, "PARSE_ERROR:") {
			cond := types.NewTextConditionWithText(strings.TrimSpace(strings.TrimPrefix(term.Value, "PARSE_ERROR:")))
			cond.Text.Error = "query could not be fully parsed"
			return cond, true
		}
		if term.IsPhrase {
			cond := types.NewTextConditionWithText(term.Value)
			cond.Text.TermOperator = types.TermExact
			return cond, true
		}
	}
	text := renderText(node, dialect)
	if text == "" {
		return types.SearchCondition{}, false
	}
	return types.NewTextConditionWithText(text), true
}

// renderText re-renders a subtree in the source dialect so the recovered text
// reads the way the user typed it.
func renderText(node ast.Node, dialect types.Dialect) string {
	if node == nil {
		return ""
	}
	wrapped := &ast.QueryRoot{Query: node}
	var out string
	var err error
	if dialect == types.DialectUSPTO {
		out, err = generator.USPTO(wrapped)
	} else {
		out, err = generator.Google(wrapped)
	}
	if err != nil {
		return ""
	}
	return out
}

// applySettings maps SET directive values onto the USPTO settings struct.
func applySettings(settings *types.USPTOSettings, raw map[string]interface{}) {
	str := func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok
	}
	if op, ok := str("defaultoperator"); ok && op != "" {
		settings.DefaultOperator = strings.ToUpper(op)
	}
	if v, ok := str("plural"); ok {
		settings.Plurals = strings.EqualFold(v, "ON")
	}
	if v, ok := str("britishequivalent"); ok {
		settings.BritishEquivalents = strings.EqualFold(v, "ON")
	}
}

// isoDate normalizes compact YYYYMMDD and slashed M/D/YYYY dates to the
// YYYY-MM-DD form the builder state uses.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return s
		}
		month, day, year := pad2(parts[0]), pad2(parts[1]), parts[2]
		return year + "-" + month + "-" + day
	}
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) == 8 {
		return digits[0:4] + "-" + digits[4:6] + "-" + digits[6:8]
	}
	return s
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

//Personal.AI order the ending
