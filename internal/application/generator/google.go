// Package generator renders a dialect-neutral query tree back into a flat
// query string for either target dialect, with each dialect's operator
// precedence and parenthesization rules.
package generator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

var operatorKeywordValue = regexp.MustCompile(`(?i)^\s*(AND|OR|NOT|NEAR\d*|ADJ\d*|WITH|SAME)\s*$`)

// googlePrecedence ranks operator kinds.  A subexpression is parenthesized
// when its operator binds no tighter than its parent's.
var googlePrecedence = map[string]int{
	"TERM": 100, "DATE": 100, "FIELD": 100, "CLASS": 100,
	"NOT_PREFIX": 90,
	"ADJ":        80, "NEAR": 80, "WITH": 80, "SAME": 80,
	"NOT_OPERAND": 70,
	"AND":         60,
	"XOR":         50,
	"OR":          40,
	"":            0,
}

var canonicalToGoogleField = map[string]string{
	ast.FieldTitle:        "TI",
	ast.FieldAbstract:     "AB",
	ast.FieldClaims:       "CL",
	ast.FieldCPC:          "CPC",
	ast.FieldIPC:          "IPC",
	ast.FieldAssignee:     "assignee",
	ast.FieldInventor:     "inventor",
	ast.FieldPatentNumber: "PN",
	ast.FieldCountry:      "country",
	ast.FieldLanguage:     "lang",
	ast.FieldStatus:       "status",
	ast.FieldType:         "type",
}

var canonicalToGoogleDateType = map[string]string{
	ast.DatePublication: "publication",
	ast.DateApplication: "filing",
	ast.DatePriority:    "priority",
}

// EmptyTermValue is the sentinel a parser emits for a blank query.
const EmptyTermValue = "__EMPTY__"

// Google renders the tree under root as a Google Patents query string.
func Google(root *ast.QueryRoot) (string, error) {
	if root == nil || root.Query == nil {
		return "", nil
	}
	out, _, err := googleNode(root.Query, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func googlePrec(op string) int {
	base := strings.TrimRight(op, "0123456789")
	return googlePrecedence[base]
}

func googleNeedsParen(current, parent string) bool {
	if parent == "" {
		return false
	}
	return googlePrec(current) <= googlePrec(parent)
}

// googleNode renders one node and reports its operator kind for the caller's
// parenthesization decision.
func googleNode(node ast.Node, parentOp string) (string, string, error) {
	var out, opKind string

	switch n := node.(type) {
	case *ast.Term:
		opKind = "TERM"
		switch {
		case n.Value == EmptyTermValue:
			return "", opKind, nil
		case n.IsPhrase:
			out = `"` + n.Value + `"`
		case operatorKeywordValue.MatchString(n.Value):
			out = `"` + n.Value + `"`
		default:
			out = n.Value
		}

	case *ast.FieldedSearch:
		field, ok := canonicalToGoogleField[n.FieldCanonicalName]
		if !ok {
			// No Google equivalent; emit the bare content.
			return googleNode(n.Query, parentOp)
		}
		inner, _, err := googleNode(n.Query, field)
		if err != nil {
			return "", "", err
		}
		if inner == "" {
			return "", "FIELD", nil
		}
		out = formatGoogleFieldValue(field, inner)
		opKind = "FIELD"

	case *ast.BooleanOp:
		op := strings.ToUpper(n.Operator)
		opKind = op
		if op == ast.OpNot && len(n.Operands) == 1 {
			inner, _, err := googleNode(n.Operands[0], "NOT_OPERAND")
			if err != nil {
				return "", "", err
			}
			if inner == "" {
				return "", opKind, nil
			}
			out = "NOT " + inner
		} else {
			parts, err := googleChildren(n.Operands, op)
			if err != nil {
				return "", "", err
			}
			if len(parts) == 0 {
				return "", opKind, nil
			}
			if len(parts) == 1 {
				return parts[0], opKind, nil
			}
			out = strings.Join(parts, " "+op+" ")
		}

	case *ast.ProximityOp:
		opKind = strings.ToUpper(n.Operator)
		if n.Distance != nil && (opKind == ast.OpAdj || opKind == ast.OpNear) {
			opKind += strconv.Itoa(*n.Distance)
		}
		parts, err := googleChildren(n.Terms, opKind)
		if err != nil {
			return "", "", err
		}
		if len(parts) == 0 {
			return "", opKind, nil
		}
		if len(parts) == 1 {
			return parts[0], opKind, nil
		}
		out = strings.Join(parts, " "+opKind+" ")

	case *ast.Classification:
		opKind = "CLASS"
		out = strings.ReplaceAll(n.Value, "/", "")
		if n.Scheme == "CPC" && n.IncludeChildren {
			out += "/low"
		}

	case *ast.DateSearch:
		opKind = "DATE"
		dateType, ok := canonicalToGoogleDateType[n.FieldCanonicalName]
		if !ok {
			return "", "", errors.New(errors.ErrCodeConvertUnsupported, "date field has no Google equivalent").
				WithDetail(n.FieldCanonicalName)
		}
		var keyword string
		switch n.Operator {
		case ">=", ">":
			keyword = "after"
		case "<=", "<":
			keyword = "before"
		case "=":
			value := normalizeDateDigits(n.DateValue)
			return "after:" + dateType + ":" + value + " before:" + dateType + ":" + value, opKind, nil
		default:
			return "", "", errors.New(errors.ErrCodeConvertUnsupported, "date operator has no Google equivalent").
				WithDetail(n.Operator)
		}
		out = keyword + ":" + dateType + ":" + normalizeDateDigits(n.DateValue)
		if n.DateValue2 != "" {
			out += " before:" + dateType + ":" + normalizeDateDigits(n.DateValue2)
		}

	default:
		return "", "", errors.New(errors.ErrCodeConvertFailed, "unhandled query tree node")
	}

	if googleNeedsParen(opKind, parentOp) && out != "" {
		if _, isBool := node.(*ast.BooleanOp); isBool {
			out = "(" + out + ")"
		} else if _, isProx := node.(*ast.ProximityOp); isProx {
			out = "(" + out + ")"
		}
	}
	return out, opKind, nil
}

func googleChildren(nodes []ast.Node, parentOp string) ([]string, error) {
	parts := make([]string, 0, len(nodes))
	for _, child := range nodes {
		s, _, err := googleNode(child, parentOp)
		if err != nil {
			return nil, err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts, nil
}

// formatGoogleFieldValue renders FIELD=value, parenthesizing the value unless
// the field takes bare codes (CPC/IPC/PN) and the value is a single token.
func formatGoogleFieldValue(field, value string) string {
	isQuoted := strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)
	isParenthesized := strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")")
	switch field {
	case "CPC", "IPC", "PN":
		if isQuoted || isParenthesized {
			return field + "=" + value
		}
		if strings.Contains(value, " ") || operatorKeywordValue.MatchString(value) {
			return field + "=(" + value + ")"
		}
		return field + "=" + value
	default:
		if isParenthesized {
			return field + "=" + value
		}
		return field + "=(" + value + ")"
	}
}

// normalizeDateDigits strips date separators, yielding the compact YYYYMMDD
// (or YYYY) form Google accepts.
func normalizeDateDigits(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "/", "")
}

//Personal.AI order the ending
