// Package ast defines the dialect-neutral query tree that the parsers produce
// and the generators consume.  Nodes serialize to JSON with a "node_type"
// discriminator so the tree can travel as the read-only debug artifact on
// generate responses and round-trip through the convert pipeline.
package ast

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Node is one vertex of the query tree.
type Node interface {
	// NodeType returns the wire discriminator for the concrete node.
	NodeType() string
}

// Boolean and proximity operator tokens.
const (
	OpAnd  = "AND"
	OpOr   = "OR"
	OpNot  = "NOT"
	OpXor  = "XOR"
	OpAdj  = "ADJ"
	OpNear = "NEAR"
	OpWith = "WITH"
	OpSame = "SAME"
)

// Canonical field names shared by both dialects.
const (
	FieldInventor     = "inventor"
	FieldAssignee     = "assignee"
	FieldTitle        = "title"
	FieldAbstract     = "abstract"
	FieldClaims       = "claims"
	FieldDescription  = "description"
	FieldPatentNumber = "patent_number"
	FieldAppNumber    = "application_number"
	FieldDocumentID   = "document_id"
	FieldCPC          = "cpc"
	FieldIPC          = "ipc"
	FieldUSClass      = "us_classification"
	FieldTextAllCore  = "text_all_core"
	FieldCountry      = "country"
	FieldStatus       = "status"
	FieldType         = "type"
	FieldLanguage     = "language"

	DatePublication = "publication_date"
	DateApplication = "application_date"
	DatePriority    = "priority_date"
	DateIssue       = "issue_date"
)

var wildcardChars = regexp.MustCompile(`[?*$]`)

// Term is a single word or quoted phrase.
type Term struct {
	Value       string `json:"value"`
	IsPhrase    bool   `json:"is_phrase"`
	HasWildcard bool   `json:"has_wildcard"`
}

// NewTerm builds a Term, deriving the wildcard flag from the value.
func NewTerm(value string, isPhrase bool) *Term {
	return &Term{
		Value:       value,
		IsPhrase:    isPhrase,
		HasWildcard: wildcardChars.MatchString(value),
	}
}

func (*Term) NodeType() string { return "TermNode" }

// Classification is a patent classification code reference.
type Classification struct {
	Scheme          string `json:"scheme"`
	Value           string `json:"value"`
	IncludeChildren bool   `json:"include_children"`
}

func (*Classification) NodeType() string { return "ClassificationNode" }

// BooleanOp combines operands with AND / OR / NOT / XOR.
// NOT carries a single operand (or an OR-group being negated).
type BooleanOp struct {
	Operator string `json:"operator"`
	Operands []Node `json:"operands"`
}

func (*BooleanOp) NodeType() string { return "BooleanOpNode" }

// ProximityOp combines terms with a distance-bounded operator.
type ProximityOp struct {
	Operator  string `json:"operator"`
	Terms     []Node `json:"terms"`
	Distance  *int   `json:"distance,omitempty"`
	Ordered   bool   `json:"ordered"`
	ScopeUnit string `json:"scope_unit,omitempty"`
}

func (*ProximityOp) NodeType() string { return "ProximityOpNode" }

// FieldedSearch restricts a subquery to a document field.
type FieldedSearch struct {
	FieldCanonicalName string `json:"field_canonical_name"`
	Query              Node   `json:"query"`
	SystemFieldCode    string `json:"system_field_code,omitempty"`
}

func (*FieldedSearch) NodeType() string { return "FieldedSearchNode" }

// DateSearch is a date comparison against a canonical date field.
type DateSearch struct {
	FieldCanonicalName string `json:"field_canonical_name"`
	Operator           string `json:"operator"`
	DateValue          string `json:"date_value"`
	DateValue2         string `json:"date_value2,omitempty"`
	SystemFieldCode    string `json:"system_field_code,omitempty"`
}

func (*DateSearch) NodeType() string { return "DateSearchNode" }

// QueryRoot wraps a full query together with dialect settings extracted from
// SET directives.
type QueryRoot struct {
	Query    Node                   `json:"query"`
	Settings map[string]interface{} `json:"settings"`
}

func (*QueryRoot) NodeType() string { return "QueryRootNode" }

// ─────────────────────────────────────────────────────────────────────────────
// JSON encoding with the node_type discriminator
// ─────────────────────────────────────────────────────────────────────────────

// Marshal encodes a node tree with node_type discriminators on every node.
func Marshal(n Node) ([]byte, error) {
	return json.Marshal(wrap(n))
}

func wrap(n Node) map[string]interface{} {
	if n == nil {
		return nil
	}
	out := map[string]interface{}{"node_type": n.NodeType()}
	switch v := n.(type) {
	case *Term:
		out["value"] = v.Value
		out["is_phrase"] = v.IsPhrase
		out["has_wildcard"] = v.HasWildcard
	case *Classification:
		out["scheme"] = v.Scheme
		out["value"] = v.Value
		out["include_children"] = v.IncludeChildren
	case *BooleanOp:
		out["operator"] = v.Operator
		out["operands"] = wrapList(v.Operands)
	case *ProximityOp:
		out["operator"] = v.Operator
		out["terms"] = wrapList(v.Terms)
		if v.Distance != nil {
			out["distance"] = *v.Distance
		}
		out["ordered"] = v.Ordered
		if v.ScopeUnit != "" {
			out["scope_unit"] = v.ScopeUnit
		}
	case *FieldedSearch:
		out["field_canonical_name"] = v.FieldCanonicalName
		out["query"] = wrap(v.Query)
		if v.SystemFieldCode != "" {
			out["system_field_code"] = v.SystemFieldCode
		}
	case *DateSearch:
		out["field_canonical_name"] = v.FieldCanonicalName
		out["operator"] = v.Operator
		out["date_value"] = v.DateValue
		if v.DateValue2 != "" {
			out["date_value2"] = v.DateValue2
		}
		if v.SystemFieldCode != "" {
			out["system_field_code"] = v.SystemFieldCode
		}
	case *QueryRoot:
		out["query"] = wrap(v.Query)
		settings := v.Settings
		if settings == nil {
			settings = map[string]interface{}{}
		}
		out["settings"] = settings
	}
	return out
}

func wrapList(nodes []Node) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, wrap(n))
	}
	return out
}

// Unmarshal decodes a node tree previously produced by Marshal.
func Unmarshal(data []byte) (Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return unwrap(raw)
}

func unwrap(raw map[string]json.RawMessage) (Node, error) {
	if raw == nil {
		return nil, nil
	}
	var nodeType string
	if err := json.Unmarshal(raw["node_type"], &nodeType); err != nil {
		return nil, fmt.Errorf("missing node_type: %w", err)
	}

	switch nodeType {
	case "TermNode":
		var n Term
		if err := decodeFields(raw, map[string]interface{}{
			"value": &n.Value, "is_phrase": &n.IsPhrase, "has_wildcard": &n.HasWildcard,
		}); err != nil {
			return nil, err
		}
		return &n, nil
	case "ClassificationNode":
		var n Classification
		if err := decodeFields(raw, map[string]interface{}{
			"scheme": &n.Scheme, "value": &n.Value, "include_children": &n.IncludeChildren,
		}); err != nil {
			return nil, err
		}
		return &n, nil
	case "BooleanOpNode":
		var n BooleanOp
		if err := decodeFields(raw, map[string]interface{}{"operator": &n.Operator}); err != nil {
			return nil, err
		}
		ops, err := unwrapList(raw["operands"])
		if err != nil {
			return nil, err
		}
		n.Operands = ops
		return &n, nil
	case "ProximityOpNode":
		var n ProximityOp
		if err := decodeFields(raw, map[string]interface{}{
			"operator": &n.Operator, "ordered": &n.Ordered,
		}); err != nil {
			return nil, err
		}
		if d, ok := raw["distance"]; ok {
			var dist int
			if err := json.Unmarshal(d, &dist); err != nil {
				return nil, err
			}
			n.Distance = &dist
		}
		if s, ok := raw["scope_unit"]; ok {
			if err := json.Unmarshal(s, &n.ScopeUnit); err != nil {
				return nil, err
			}
		}
		terms, err := unwrapList(raw["terms"])
		if err != nil {
			return nil, err
		}
		n.Terms = terms
		return &n, nil
	case "FieldedSearchNode":
		var n FieldedSearch
		if err := decodeFields(raw, map[string]interface{}{
			"field_canonical_name": &n.FieldCanonicalName,
		}); err != nil {
			return nil, err
		}
		if s, ok := raw["system_field_code"]; ok {
			if err := json.Unmarshal(s, &n.SystemFieldCode); err != nil {
				return nil, err
			}
		}
		child, err := unwrapChild(raw["query"])
		if err != nil {
			return nil, err
		}
		n.Query = child
		return &n, nil
	case "DateSearchNode":
		var n DateSearch
		if err := decodeFields(raw, map[string]interface{}{
			"field_canonical_name": &n.FieldCanonicalName,
			"operator":             &n.Operator,
			"date_value":           &n.DateValue,
		}); err != nil {
			return nil, err
		}
		if s, ok := raw["date_value2"]; ok {
			if err := json.Unmarshal(s, &n.DateValue2); err != nil {
				return nil, err
			}
		}
		if s, ok := raw["system_field_code"]; ok {
			if err := json.Unmarshal(s, &n.SystemFieldCode); err != nil {
				return nil, err
			}
		}
		return &n, nil
	case "QueryRootNode":
		var n QueryRoot
		if s, ok := raw["settings"]; ok {
			if err := json.Unmarshal(s, &n.Settings); err != nil {
				return nil, err
			}
		}
		child, err := unwrapChild(raw["query"])
		if err != nil {
			return nil, err
		}
		n.Query = child
		return &n, nil
	default:
		return nil, fmt.Errorf("unknown AST node_type %q", nodeType)
	}
}

func decodeFields(raw map[string]json.RawMessage, fields map[string]interface{}) error {
	for key, target := range fields {
		payload, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return nil
}

func unwrapChild(payload json.RawMessage) (Node, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return nil, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	return unwrap(raw)
}

func unwrapList(payload json.RawMessage) ([]Node, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var raws []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		n, err := unwrap(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

//Personal.AI order the ending
