package generator

import (
	"strconv"
	"strings"

	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
)

var canonicalToUSPTOField = map[string]string{
	ast.FieldTitle:        "TTL",
	ast.FieldAbstract:     "ABST",
	ast.FieldClaims:       "ACLM",
	ast.FieldDescription:  "SPEC",
	ast.FieldAssignee:     "AN",
	ast.FieldInventor:     "IN",
	ast.FieldCPC:          "CPC",
	ast.FieldIPC:          "IPC",
	ast.FieldPatentNumber: "PN",
	ast.FieldAppNumber:    "APP",
	ast.FieldDocumentID:   "DID",
	ast.FieldUSClass:      "CCLS",
}

var canonicalToUSPTODateField = map[string]string{
	ast.DateApplication: "APD",
	ast.DatePriority:    "PRD",
	ast.DatePublication: "ISD",
	ast.DateIssue:       "ISD",
}

// usptoPrecedence mirrors the engine's binding order:
// NOT > proximity > AND > XOR > OR.
var usptoPrecedence = map[string]int{
	"TERM": 100, "DATE": 100, "FIELD": 100, "CLASS": 100,
	"NOT_PREFIX": 90,
	"ADJ":        80, "NEAR": 80, "WITH": 80, "SAME": 80,
	"AND": 60,
	"XOR": 50,
	"OR":  40,
	"":    0,
}

// USPTO renders the tree under root as a Patent Public Search query string.
// SET directives travel in root.Settings and are the converter's concern, not
// the expression renderer's.
func USPTO(root *ast.QueryRoot) (string, error) {
	if root == nil || root.Query == nil {
		return "", nil
	}
	out, _, err := usptoNode(root.Query, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func usptoPrec(op string) int {
	return usptoPrecedence[strings.TrimRight(op, "0123456789")]
}

func usptoNode(node ast.Node, parentOp string) (string, string, error) {
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
		field, ok := canonicalToUSPTOField[n.FieldCanonicalName]
		if !ok {
			return usptoNode(n.Query, parentOp)
		}
		inner, _, err := usptoNode(n.Query, "")
		if err != nil {
			return "", "", err
		}
		if inner == "" {
			return "", "FIELD", nil
		}
		if cls, isClass := n.Query.(*ast.Classification); isClass {
			inner = formatUSPTOClassValue(cls)
		}
		out = attachUSPTOField(field, inner)
		opKind = "FIELD"

	case *ast.BooleanOp:
		op := strings.ToUpper(n.Operator)
		opKind = op
		if op == ast.OpNot && len(n.Operands) == 1 {
			inner, _, err := usptoNode(n.Operands[0], "NOT_PREFIX")
			if err != nil {
				return "", "", err
			}
			if inner == "" {
				return "", opKind, nil
			}
			out = "NOT " + inner
		} else {
			parts, err := usptoChildren(n.Operands, op)
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
		joiner := opKind
		if n.Distance != nil && (opKind == ast.OpAdj || opKind == ast.OpNear) {
			joiner += strconv.Itoa(*n.Distance)
			opKind = joiner
		}
		parts, err := usptoChildren(n.Terms, opKind)
		if err != nil {
			return "", "", err
		}
		if len(parts) == 0 {
			return "", opKind, nil
		}
		if len(parts) == 1 {
			return parts[0], opKind, nil
		}
		out = strings.Join(parts, " "+joiner+" ")

	case *ast.Classification:
		opKind = "CLASS"
		out = formatUSPTOClassValue(n)

	case *ast.DateSearch:
		opKind = "DATE"
		field, ok := canonicalToUSPTODateField[n.FieldCanonicalName]
		if !ok {
			if n.SystemFieldCode == "" {
				return "", "", errors.New(errors.ErrCodeConvertUnsupported, "date field has no USPTO equivalent").
					WithDetail(n.FieldCanonicalName)
			}
			// Fall back to the code the query was originally parsed with.
			field = strings.ToUpper(n.SystemFieldCode)
		}
		out = "@" + field + n.Operator + usptoDateValue(n.DateValue)
		if n.DateValue2 != "" {
			out += "<=" + usptoDateValue(n.DateValue2)
		}

	default:
		return "", "", errors.New(errors.ErrCodeConvertFailed, "unhandled query tree node")
	}

	switch node.(type) {
	case *ast.BooleanOp, *ast.ProximityOp:
		if parentOp != "" && usptoPrec(opKind) <= usptoPrec(parentOp) && out != "" {
			out = "(" + out + ")"
		}
	}
	return out, opKind, nil
}

func usptoChildren(nodes []ast.Node, parentOp string) ([]string, error) {
	parts := make([]string, 0, len(nodes))
	for _, child := range nodes {
		s, _, err := usptoNode(child, parentOp)
		if err != nil {
			return nil, err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts, nil
}

// attachUSPTOField wraps an expression in the FIELD/ prefix form, keeping
// already self-contained expressions bare.
func attachUSPTOField(field, expr string) string {
	selfContained := (strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")")) ||
		(strings.HasPrefix(expr, `"`) && strings.HasSuffix(expr, `"`))
	if selfContained || len(strings.Fields(expr)) == 1 {
		return field + "/" + expr
	}
	return field + "/(" + expr + ")"
}

// formatUSPTOClassValue re-inserts the subgroup slash Google strips from CPC
// codes: H01L31 stays, H01L3118 becomes H01L31/18 when the shape is
// recognizable.  The /low children marker has no USPTO form and is dropped.
func formatUSPTOClassValue(n *ast.Classification) string {
	value := strings.TrimSuffix(strings.TrimSpace(n.Value), "/low")
	if strings.Contains(value, "/") || len(value) <= 4 {
		return value
	}
	isDigits := func(s string) bool {
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return s != ""
	}
	head := value[:4]
	tail := value[4:]
	if isLetter(head[0]) && isDigits(head[1:3]) && isLetter(head[3]) && isDigits(tail) {
		return head + "/" + tail
	}
	return value
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// usptoDateValue converts compact YYYYMMDD dates to the engine's M/D/YYYY
// form; values already carrying slashes pass through.
func usptoDateValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return s
	}
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) != 8 {
		return s
	}
	month, err1 := strconv.Atoi(digits[4:6])
	day, err2 := strconv.Atoi(digits[6:8])
	if err1 != nil || err2 != nil {
		return s
	}
	return strconv.Itoa(month) + "/" + strconv.Itoa(day) + "/" + digits[0:4]
}

//Personal.AI order the ending
