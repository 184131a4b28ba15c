package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/PatQuery-Bridge/internal/application/generator"
	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
)

var (
	usptoDatePattern   = regexp.MustCompile(`^@([A-Za-z]{2,})(>=|<=|<>|=|>|<)([\d/]+)(?:<=([\d/]+))?$`)
	usptoSuffixPattern = regexp.MustCompile(`(?i)^(.*)\.([a-z]{2,4})\.$`)
	usptoPrefixPattern = regexp.MustCompile(`(?i)^([A-Za-z]{2,4})/(.*)$`)
)

// usptoToCanonical maps a Patent Public Search field code (upper-cased) to the
// canonical field name.  Several legacy aliases map to the same field.
var usptoToCanonical = map[string]string{
	"TTL": ast.FieldTitle, "TI": ast.FieldTitle,
	"ABST": ast.FieldAbstract, "AB": ast.FieldAbstract,
	"ACLM": ast.FieldClaims, "CLM": ast.FieldClaims, "CLMS": ast.FieldClaims,
	"SPEC": ast.FieldDescription, "DETD": ast.FieldDescription,
	"IN": ast.FieldInventor, "INV": ast.FieldInventor,
	"AN": ast.FieldAssignee, "AS": ast.FieldAssignee,
	"CPC": ast.FieldCPC, "CPCA": ast.FieldCPC, "CPCI": ast.FieldCPC,
	"IPC":  ast.FieldIPC,
	"CCLS": ast.FieldUSClass, "CLAS": ast.FieldUSClass,
	"PN":  ast.FieldPatentNumber,
	"APP": ast.FieldAppNumber,
	"DID": ast.FieldDocumentID,
}

// usptoDateToCanonical maps a date field code to the canonical date field.
var usptoDateToCanonical = map[string]string{
	"PD":  ast.DatePublication,
	"PY":  ast.DatePublication,
	"ISD": ast.DateIssue,
	"AD":  ast.DateApplication,
	"FD":  ast.DateApplication,
	"APD": ast.DateApplication,
	"AY":  ast.DateApplication,
	"FY":  ast.DateApplication,
	"PRD": ast.DatePriority,
}

// ParseUSPTO parses a Patent Public Search query string, peeling any leading
// SET directive into the root's settings first.  Like ParseGoogle it never
// fails outright: malformed input becomes a PARSE_ERROR term.
func ParseUSPTO(query string) *ast.QueryRoot {
	settings, rest := extractSETDirective(query)
	trimmed := strings.TrimSpace(rest)
	if trimmed == "" {
		return &ast.QueryRoot{Query: ast.NewTerm(generator.EmptyTermValue, false), Settings: settings}
	}

	p := &usptoParser{cursor: cursor{toks: lex(trimmed)}}
	node, err := p.parseOr()
	if err == nil && p.peek().kind != tokEOF {
		err = fmt.Errorf("unexpected %q", p.peek().text)
	}
	if err != nil {
		return &ast.QueryRoot{
			Query:    ast.NewTerm("PARSE_ERROR: "+err.Error(), false),
			Settings: settings,
		}
	}
	return &ast.QueryRoot{Query: node, Settings: settings}
}

// extractSETDirective splits "SET k=v,k=v rest" into lowercase-keyed settings
// and the remaining query text.
func extractSETDirective(query string) (map[string]interface{}, string) {
	settings := map[string]interface{}{}
	trimmed := strings.TrimSpace(query)
	fields := strings.SplitN(trimmed, " ", 2)
	if len(fields) < 1 || !strings.EqualFold(fields[0], "SET") {
		return settings, query
	}
	rest := ""
	if len(fields) == 2 {
		rest = fields[1]
	}
	// The directive body runs to the first space: assignments are
	// comma-separated with no internal whitespace.
	body := rest
	remainder := ""
	if idx := strings.Index(rest, " "); idx >= 0 {
		body = rest[:idx]
		remainder = rest[idx+1:]
	}
	for _, assign := range strings.Split(body, ",") {
		kv := strings.SplitN(assign, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		if key != "" {
			settings[key] = strings.TrimSpace(kv[1])
		}
	}
	return settings, remainder
}

type usptoParser struct {
	cursor
}

func (p *usptoParser) parseOr() (ast.Node, error) {
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

func (p *usptoParser) parseXor() (ast.Node, error) {
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

func (p *usptoParser) parseAnd() (ast.Node, error) {
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
		left = appendOperand(left, ast.OpAnd, right)
	}
}

func (p *usptoParser) startsOperand() bool {
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

func (p *usptoParser) parseUnary() (ast.Node, error) {
	if p.atWord("NOT") {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BooleanOp{Operator: ast.OpNot, Operands: []ast.Node{inner}}, nil
	}
	return p.parseProximity()
}

func (p *usptoParser) parseProximity() (ast.Node, error) {
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

func (p *usptoParser) parseAtom() (ast.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("expected closing parenthesis, found %q", p.peek().text)
		}
		p.next()
		return p.applyPostfixSuffix(inner), nil
	case tokQuoted:
		p.next()
		return p.applyPostfixSuffix(ast.NewTerm(t.text, true)), nil
	case tokWord:
		p.next()
		return p.usptoWordAtom(t.text)
	default:
		return nil, fmt.Errorf("expected a term, found %q", t.text)
	}
}

// applyPostfixSuffix consumes a trailing ".xx." word after a group or phrase,
// as in (smith OR jones).in., and wraps the node in that field.
func (p *usptoParser) applyPostfixSuffix(node ast.Node) ast.Node {
	t := p.peek()
	if t.kind != tokWord {
		return node
	}
	m := usptoSuffixPattern.FindStringSubmatch(t.text)
	if m == nil || m[1] != "" {
		return node
	}
	code := strings.ToUpper(m[2])
	canonical, ok := usptoToCanonical[code]
	if !ok {
		return node
	}
	p.next()
	return &ast.FieldedSearch{FieldCanonicalName: canonical, Query: node, SystemFieldCode: code}
}

// usptoWordAtom classifies a single word: a date expression, a FIELD/ prefix,
// a .xx. suffix form, or a plain term.
func (p *usptoParser) usptoWordAtom(word string) (ast.Node, error) {
	if m := usptoDatePattern.FindStringSubmatch(word); m != nil {
		return usptoDateNode(m), nil
	}

	if m := usptoSuffixPattern.FindStringSubmatch(word); m != nil && m[1] != "" {
		code := strings.ToUpper(m[2])
		if canonical, ok := usptoToCanonical[code]; ok {
			return &ast.FieldedSearch{
				FieldCanonicalName: canonical,
				Query:              ast.NewTerm(m[1], false),
				SystemFieldCode:    code,
			}, nil
		}
	}

	if m := usptoPrefixPattern.FindStringSubmatch(word); m != nil && m[2] != "" {
		code := strings.ToUpper(m[1])
		if canonical, ok := usptoToCanonical[code]; ok {
			return makeUSPTOFielded(code, canonical, ast.NewTerm(m[2], false)), nil
		}
	}

	// A bare "FIELD/" prefix whose value is the following group, phrase, or
	// word: TTL/(solar ADJ cell).
	if strings.HasSuffix(word, "/") && len(word) > 1 {
		code := strings.ToUpper(word[:len(word)-1])
		if canonical, ok := usptoToCanonical[code]; ok {
			content, err := p.parseFieldContent()
			if err != nil {
				return nil, err
			}
			return makeUSPTOFielded(code, canonical, content), nil
		}
	}

	return ast.NewTerm(word, false), nil
}

func (p *usptoParser) parseFieldContent() (ast.Node, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseOr()
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

// makeUSPTOFielded builds the fielded node, promoting classification values to
// classification nodes.  USPTO codes keep their slashes; the canonical value
// preserves them so the Google renderer can strip as needed.
func makeUSPTOFielded(code, canonical string, content ast.Node) ast.Node {
	if canonical == ast.FieldCPC || canonical == ast.FieldIPC || canonical == ast.FieldUSClass {
		if term, ok := content.(*ast.Term); ok {
			scheme := "CPC"
			switch canonical {
			case ast.FieldIPC:
				scheme = "IPC"
			case ast.FieldUSClass:
				scheme = "USPC"
			}
			return &ast.FieldedSearch{
				FieldCanonicalName: canonical,
				Query:              &ast.Classification{Scheme: scheme, Value: term.Value},
				SystemFieldCode:    code,
			}
		}
	}
	return &ast.FieldedSearch{FieldCanonicalName: canonical, Query: content, SystemFieldCode: code}
}

func usptoDateNode(match []string) ast.Node {
	code := strings.ToUpper(match[1])
	canonical, ok := usptoDateToCanonical[code]
	if !ok {
		// Keep the original code so the USPTO renderer can round-trip it.
		canonical = strings.ToLower(code)
	}
	node := &ast.DateSearch{
		FieldCanonicalName: canonical,
		Operator:           match[2],
		DateValue:          match[3],
		SystemFieldCode:    code,
	}
	if match[4] != "" {
		node.DateValue2 = match[4]
	}
	return node
}

//Personal.AI order the ending
