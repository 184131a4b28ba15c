package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	"github.com/turtacn/PatQuery-Bridge/internal/application/generator"
)

var (
	googleDatePattern = regexp.MustCompile(`(?i)^(after|before):(publication|filing|priority):(\d{4,8})$`)
	proximityPattern  = regexp.MustCompile(`(?i)^(ADJ|NEAR|WITH|SAME)(?:/?(\d+))?$`)
)

// googleFieldToCanonical maps a Google field code (upper-cased) to the
// canonical field name.
var googleFieldToCanonical = map[string]string{
	"TI":       ast.FieldTitle,
	"AB":       ast.FieldAbstract,
	"CL":       ast.FieldClaims,
	"CPC":      ast.FieldCPC,
	"IPC":      ast.FieldIPC,
	"ASSIGNEE": ast.FieldAssignee,
	"INVENTOR": ast.FieldInventor,
	"PN":       ast.FieldPatentNumber,
	"COUNTRY":  ast.FieldCountry,
	"LANG":     ast.FieldLanguage,
	"STATUS":   ast.FieldStatus,
	"TYPE":     ast.FieldType,
	"TAC":      ast.FieldTextAllCore,
	"TITLE":    ast.FieldTitle,
}

var googleDateTypeToCanonical = map[string]string{
	"publication": ast.DatePublication,
	"filing":      ast.DateApplication,
	"priority":    ast.DatePriority,
}

// ParseGoogle parses a Google Patents query string.  It never returns an
// error: a blank input yields the empty-term sentinel and a malformed one a
// single PARSE_ERROR term, so callers always hold a usable tree.
func ParseGoogle(query string) *ast.QueryRoot {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &ast.QueryRoot{Query: ast.NewTerm(generator.EmptyTermValue, false), Settings: map[string]interface{}{}}
	}

	p := &googleParser{cursor: cursor{toks: lex(trimmed)}}
	node, err := p.parseExpr()
	if err == nil && p.peek().kind != tokEOF {
		err = fmt.Errorf("unexpected %q", p.peek().text)
	}
	if err != nil {
		return &ast.QueryRoot{
			Query:    ast.NewTerm("PARSE_ERROR: "+err.Error(), false),
			Settings: map[string]interface{}{},
		}
	}
	return &ast.QueryRoot{Query: node, Settings: map[string]interface{}{}}
}

type googleParser struct {
	cursor
}

// Precedence, loosest first: OR, XOR, AND (explicit or adjacency), unary
// NOT / '-', proximity, atoms.
func (p *googleParser) parseExpr() (ast.Node, error) { return p.parseOr() }

func (p *googleParser) parseOr() (ast.Node, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.atWord("OR") {
		p.next()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = appendOperand(left, ast.OpOr, right)
	}
	return left, nil
}

func (p *googleParser) parseXor() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atWord("XOR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = appendOperand(left, ast.OpXor, right)
	}
	return left, nil
}

func (p *googleParser) parseAnd() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.atWord("AND") {
			p.next()
		} else if !p.startsOperand() {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// Consecutive implicit ANDs flatten into one operand list.
		left = appendOperand(left, ast.OpAnd, right)
	}
}

// startsOperand reports whether the next token can begin an operand, which is
// what makes bare adjacency an implicit AND.
func (p *googleParser) startsOperand() bool {
	t := p.peek()
	switch t.kind {
	case tokLParen, tokQuoted:
		return true
	case tokWord:
		if p.atWord("OR", "XOR", "AND") {
			return false
		}
		return !proximityPattern.MatchString(t.text)
	default:
		return false
	}
}

func (p *googleParser) parseUnary() (ast.Node, error) {
	t := p.peek()
	if t.kind == tokWord {
		if strings.EqualFold(t.text, "NOT") || t.text == "-" {
			p.next()
			inner, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.BooleanOp{Operator: ast.OpNot, Operands: []ast.Node{inner}}, nil
		}
		if strings.HasPrefix(t.text, "-") && len(t.text) > 1 {
			p.next()
			return &ast.BooleanOp{
				Operator: ast.OpNot,
				Operands: []ast.Node{p.wordNode(t.text[1:])},
			}, nil
		}
	}
	return p.parseProximity()
}

func (p *googleParser) parseProximity() (ast.Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokWord {
			return left, nil
		}
		m := proximityPattern.FindStringSubmatch(t.text)
		if m == nil {
			return left, nil
		}
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = proximityNode(m, left, right)
	}
}

func proximityNode(match []string, left, right ast.Node) *ast.ProximityOp {
	op := strings.ToUpper(match[1])
	node := &ast.ProximityOp{
		Operator: op,
		Terms:    []ast.Node{left, right},
		Ordered:  op == ast.OpAdj,
	}
	if match[2] != "" {
		d, _ := strconv.Atoi(match[2])
		node.Distance = &d
	}
	switch op {
	case ast.OpWith:
		node.ScopeUnit = "sentence"
	case ast.OpSame:
		node.ScopeUnit = "paragraph"
	}
	return node
}

func (p *googleParser) parseAtom() (ast.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("expected closing parenthesis, found %q", p.peek().text)
		}
		p.next()
		return inner, nil
	case tokQuoted:
		p.next()
		return ast.NewTerm(t.text, true), nil
	case tokWord:
		p.next()
		return p.wordAtom(t.text)
	default:
		return nil, fmt.Errorf("expected a term, found %q", t.text)
	}
}

// wordAtom classifies a single word: the litigation pseudo-term, a date
// expression, a field prefix (with trailing or inline value), or a plain term.
func (p *googleParser) wordAtom(word string) (ast.Node, error) {
	if strings.EqualFold(word, "is:litigated") {
		return ast.NewTerm("is:litigated", false), nil
	}
	if m := googleDatePattern.FindStringSubmatch(word); m != nil {
		return googleDateNode(m), nil
	}

	// Trailing separator: the value is the next token (group, phrase, word).
	if len(word) > 1 && (strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=")) {
		code := strings.ToUpper(word[:len(word)-1])
		if canonical, ok := googleFieldToCanonical[code]; ok {
			content, err := p.parseFieldContent()
			if err != nil {
				return nil, err
			}
			return makeGoogleFielded(code, canonical, content), nil
		}
	}

	// Inline separator: field:value in one word.
	if idx := strings.IndexAny(word, ":="); idx > 0 && idx < len(word)-1 {
		code := strings.ToUpper(word[:idx])
		if canonical, ok := googleFieldToCanonical[code]; ok {
			value := word[idx+1:]
			return makeGoogleFielded(code, canonical, ast.NewTerm(value, false)), nil
		}
	}

	return ast.NewTerm(word, false), nil
}

func (p *googleParser) wordNode(word string) ast.Node {
	node, err := p.wordAtom(word)
	if err != nil || node == nil {
		return ast.NewTerm(word, false)
	}
	return node
}

func (p *googleParser) parseFieldContent() (ast.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("unterminated field group")
		}
		p.next()
		return inner, nil
	case tokQuoted:
		p.next()
		return ast.NewTerm(t.text, true), nil
	case tokWord:
		p.next()
		return ast.NewTerm(t.text, false), nil
	default:
		return nil, fmt.Errorf("field prefix without a value")
	}
}

// makeGoogleFielded builds the fielded node, promoting cpc/ipc term values to
// classification nodes with /low subtree handling.
func makeGoogleFielded(code, canonical string, content ast.Node) ast.Node {
	if canonical == ast.FieldCPC || canonical == ast.FieldIPC {
		if term, ok := content.(*ast.Term); ok {
			value := term.Value
			includeChildren := false
			if strings.HasSuffix(strings.ToLower(value), "/low") {
				value = value[:len(value)-4]
				includeChildren = true
			}
			scheme := "CPC"
			if canonical == ast.FieldIPC {
				scheme = "IPC"
			}
			return &ast.FieldedSearch{
				FieldCanonicalName: canonical,
				Query:              &ast.Classification{Scheme: scheme, Value: value, IncludeChildren: includeChildren},
				SystemFieldCode:    code,
			}
		}
	}
	return &ast.FieldedSearch{FieldCanonicalName: canonical, Query: content, SystemFieldCode: code}
}

func googleDateNode(match []string) ast.Node {
	keyword := strings.ToLower(match[1])
	dateType := strings.ToLower(match[2])
	value := match[3]

	canonical := googleDateTypeToCanonical[dateType]
	operator := ">="
	if keyword == "before" {
		operator = "<="
	}

	switch len(value) {
	case 4:
		if operator == ">=" {
			value += "0101"
		} else {
			value += "1231"
		}
	case 6:
		// Year-month is ambiguous in the target engines; surface it as an
		// error term the caller can show verbatim.
		return ast.NewTerm(fmt.Sprintf("ERROR_UNSUPPORTED_DATE_FORMAT_YYYYMM_%s:%s", dateType, value), false)
	}

	return &ast.DateSearch{
		FieldCanonicalName: canonical,
		Operator:           operator,
		DateValue:          value,
		SystemFieldCode:    dateType,
	}
}

// appendOperand grows a flattened boolean list when the operator matches,
// otherwise starts a new node.
func appendOperand(left ast.Node, op string, right ast.Node) ast.Node {
	if b, ok := left.(*ast.BooleanOp); ok && b.Operator == op {
		b.Operands = append(b.Operands, right)
		return b
	}
	return &ast.BooleanOp{Operator: op, Operands: []ast.Node{left, right}}
}

//Personal.AI order the ending
