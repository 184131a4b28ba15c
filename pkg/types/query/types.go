// Package query defines the shared data model for the PatQuery-Bridge query
// builder: the search-condition tagged union, the dialect-agnostic common
// fields, per-dialect settings, and the wire DTOs exchanged with the
// generate/parse/convert endpoints.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Dialect identifies one of the supported external search-engine query languages.
type Dialect string

const (
	DialectGoogle  Dialect = "google"
	DialectUSPTO   Dialect = "uspto"
	DialectUnknown Dialect = "unknown"
)

// Valid reports whether d is a concrete, assemblable dialect.
func (d Dialect) Valid() bool {
	return d == DialectGoogle || d == DialectUSPTO
}

// ParseDialect normalizes a user-supplied dialect name.
func ParseDialect(s string) Dialect {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google":
		return DialectGoogle
	case "uspto":
		return DialectUSPTO
	default:
		return DialectUnknown
	}
}

// SentinelURL is the canonical "no valid query yet" placeholder link value.
// It must never be treated as a real link.
const SentinelURL = "#"

// ─────────────────────────────────────────────────────────────────────────────
// Search condition tagged union
// ─────────────────────────────────────────────────────────────────────────────

// ConditionType discriminates the SearchCondition union.
type ConditionType string

const (
	ConditionText           ConditionType = "TEXT"
	ConditionClassification ConditionType = "CLASSIFICATION"
	ConditionChemistry      ConditionType = "CHEMISTRY"
	ConditionMeasure        ConditionType = "MEASURE"
	ConditionNumbers        ConditionType = "NUMBERS"
)

// TextScope is the document region a text condition is restricted to.
type TextScope string

const (
	ScopeFullText TextScope = "FT"
	ScopeTitle    TextScope = "TI"
	ScopeAbstract TextScope = "AB"
	ScopeClaims   TextScope = "CL"
	ScopeCPC      TextScope = "CPC"
)

// TermOperator controls how the whitespace-split terms of a text condition
// are combined.
type TermOperator string

const (
	TermAll   TermOperator = "ALL"
	TermAny   TermOperator = "ANY"
	TermExact TermOperator = "EXACT"
	TermNone  TermOperator = "NONE"
)

// ClassificationOption selects subtree vs exact matching for a CPC code.
type ClassificationOption string

const (
	ClassChildren ClassificationOption = "CHILDREN"
	ClassExact    ClassificationOption = "EXACT"
)

// ChemOperator is the backend chemistry search operator.
type ChemOperator string

const (
	ChemExact        ChemOperator = "EXACT"
	ChemSimilar      ChemOperator = "SIMILAR"
	ChemSubstructure ChemOperator = "SUBSTRUCTURE"
	ChemSMARTS       ChemOperator = "SMARTS"
)

// ChemOperatorFromLabel maps a presentation label onto a backend operator.
// The mapping is many-to-one: both "Exact" and "Exact Batch" collapse to
// ChemExact.  Unrecognized labels default to ChemExact.
func ChemOperatorFromLabel(label string) ChemOperator {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "similar":
		return ChemSimilar
	case "substructure":
		return ChemSubstructure
	case "smarts":
		return ChemSMARTS
	default:
		return ChemExact
	}
}

// CanonicalChemLabel returns the preferred presentation label for an operator.
// The reverse of ChemOperatorFromLabel is inherently lossy ("Exact Batch" is
// never recovered); the canonical label is used when parsing back.
func CanonicalChemLabel(op ChemOperator) string {
	switch op {
	case ChemSimilar:
		return "Similar"
	case ChemSubstructure:
		return "Substructure"
	case ChemSMARTS:
		return "SMARTS"
	default:
		return "Exact"
	}
}

// ChemDocScope restricts a chemistry condition to claims or the full document.
type ChemDocScope string

const (
	ChemScopeFull       ChemDocScope = "FULL"
	ChemScopeClaimsOnly ChemDocScope = "CLAIMS_ONLY"
)

// NumberType qualifies the document-number condition.
type NumberType string

const (
	NumberApplication NumberType = "APPLICATION"
	NumberPublication NumberType = "PUBLICATION"
	NumberEither      NumberType = "EITHER"
)

// TextData is the payload of a TEXT condition.
// Invariant (enforced by the domain layer): SelectedScopes is never empty and
// ScopeFullText is exclusive with all other scopes.
type TextData struct {
	Text           string       `json:"text"`
	SelectedScopes []TextScope  `json:"selectedScopes,omitempty"`
	TermOperator   TermOperator `json:"termOperator,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// ClassificationData is the payload of a CLASSIFICATION condition.
type ClassificationData struct {
	CPC    string               `json:"cpc"`
	Option ClassificationOption `json:"option,omitempty"`
}

// ChemistryData is the payload of a CHEMISTRY condition.
type ChemistryData struct {
	Term            string       `json:"term"`
	Operator        ChemOperator `json:"operator,omitempty"`
	UIOperatorLabel string       `json:"uiOperatorLabel,omitempty"`
	DocScope        ChemDocScope `json:"docScope,omitempty"`
}

// MeasureData is the payload of a MEASURE condition.  At least one of the two
// fields must be non-empty for the condition to count as filled.
type MeasureData struct {
	Measurements  string `json:"measurements"`
	UnitsConcepts string `json:"units_concepts"`
}

// NumbersData is the payload of a NUMBERS condition.  DocIDsText holds
// newline-separated document identifiers.
type NumbersData struct {
	DocIDsText              string     `json:"doc_id"`
	NumberType              NumberType `json:"number_type,omitempty"`
	CountryRestriction      string     `json:"country_restriction,omitempty"`
	PreferredCountriesOrder string     `json:"preferred_countries_order,omitempty"`
}

// SearchCondition is one atomic search criterion.  Exactly one payload pointer
// is non-nil, matching Type.  The ID is opaque and stable: generated at
// creation, never reused, and used only for list diffing.
type SearchCondition struct {
	ID   string
	Type ConditionType

	Text           *TextData
	Classification *ClassificationData
	Chemistry      *ChemistryData
	Measure        *MeasureData
	Numbers        *NumbersData
}

// NewTextCondition returns a blank TEXT condition with a fresh identifier,
// full-text scope, and the ALL term operator.
func NewTextCondition() SearchCondition {
	return SearchCondition{
		ID:   uuid.New().String(),
		Type: ConditionText,
		Text: &TextData{
			SelectedScopes: []TextScope{ScopeFullText},
			TermOperator:   TermAll,
		},
	}
}

// NewTextConditionWithText is NewTextCondition with initial text.
func NewTextConditionWithText(text string) SearchCondition {
	c := NewTextCondition()
	c.Text.Text = text
	return c
}

// IsBlank reports whether the condition carries no searchable content.
func (c SearchCondition) IsBlank() bool {
	switch c.Type {
	case ConditionText:
		return c.Text == nil || strings.TrimSpace(c.Text.Text) == ""
	case ConditionClassification:
		return c.Classification == nil || strings.TrimSpace(c.Classification.CPC) == ""
	case ConditionChemistry:
		return c.Chemistry == nil || strings.TrimSpace(c.Chemistry.Term) == ""
	case ConditionMeasure:
		return c.Measure == nil ||
			(strings.TrimSpace(c.Measure.Measurements) == "" &&
				strings.TrimSpace(c.Measure.UnitsConcepts) == "")
	case ConditionNumbers:
		return c.Numbers == nil || strings.TrimSpace(c.Numbers.DocIDsText) == ""
	default:
		return true
	}
}

// Clone returns a deep copy of the condition, ID included.
func (c SearchCondition) Clone() SearchCondition {
	out := SearchCondition{ID: c.ID, Type: c.Type}
	if c.Text != nil {
		t := *c.Text
		t.SelectedScopes = append([]TextScope(nil), c.Text.SelectedScopes...)
		out.Text = &t
	}
	if c.Classification != nil {
		v := *c.Classification
		out.Classification = &v
	}
	if c.Chemistry != nil {
		v := *c.Chemistry
		out.Chemistry = &v
	}
	if c.Measure != nil {
		v := *c.Measure
		out.Measure = &v
	}
	if c.Numbers != nil {
		v := *c.Numbers
		out.Numbers = &v
	}
	return out
}

// conditionEnvelope is the wire shape: {"id": ..., "type": ..., "data": {...}}.
type conditionEnvelope struct {
	ID   string          `json:"id"`
	Type ConditionType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON serializes the active variant under the "data" key.
func (c SearchCondition) MarshalJSON() ([]byte, error) {
	var data interface{}
	switch c.Type {
	case ConditionText:
		data = c.Text
	case ConditionClassification:
		data = c.Classification
	case ConditionChemistry:
		data = c.Chemistry
	case ConditionMeasure:
		data = c.Measure
	case ConditionNumbers:
		data = c.Numbers
	default:
		return nil, fmt.Errorf("unknown condition type %q", c.Type)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionEnvelope{ID: c.ID, Type: c.Type, Data: raw})
}

// UnmarshalJSON decodes the "data" payload into the variant named by "type".
func (c *SearchCondition) UnmarshalJSON(b []byte) error {
	var env conditionEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*c = SearchCondition{ID: env.ID, Type: env.Type}
	if len(env.Data) == 0 {
		env.Data = json.RawMessage("{}")
	}
	switch env.Type {
	case ConditionText:
		c.Text = &TextData{}
		return json.Unmarshal(env.Data, c.Text)
	case ConditionClassification:
		c.Classification = &ClassificationData{}
		return json.Unmarshal(env.Data, c.Classification)
	case ConditionChemistry:
		c.Chemistry = &ChemistryData{}
		return json.Unmarshal(env.Data, c.Chemistry)
	case ConditionMeasure:
		c.Measure = &MeasureData{}
		return json.Unmarshal(env.Data, c.Measure)
	case ConditionNumbers:
		c.Numbers = &NumbersData{}
		return json.Unmarshal(env.Data, c.Numbers)
	default:
		return fmt.Errorf("unknown condition type %q", env.Type)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Common fields and dialect settings
// ─────────────────────────────────────────────────────────────────────────────

// DateType selects which patent date the range filter applies to.
type DateType string

const (
	DatePriority    DateType = "priority"
	DateFiling      DateType = "filing"
	DatePublication DateType = "publication"
)

// Valid reports whether dt names a supported date type.
func (dt DateType) Valid() bool {
	return dt == DatePriority || dt == DateFiling || dt == DatePublication
}

// DynamicEntry is one independently removable list entry (inventor, assignee).
// Duplicates are allowed; the ID exists for list diffing only.
type DynamicEntry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// NewDynamicEntry returns an entry with a fresh identifier.
func NewDynamicEntry(value string) DynamicEntry {
	return DynamicEntry{ID: uuid.New().String(), Value: value}
}

// CommonFields are the dialect-agnostic structured filters applied alongside
// the condition list.
type CommonFields struct {
	DateFrom      string         `json:"dateFrom"`
	DateTo        string         `json:"dateTo"`
	DateType      DateType       `json:"dateType"`
	Inventors     []DynamicEntry `json:"inventors"`
	Assignees     []DynamicEntry `json:"assignees"`
	PatentOffices []string       `json:"patentOffices"`
	Languages     []string       `json:"languages"`
	Status        string         `json:"status"`
	PatentType    string         `json:"patentType"`
	Litigation    string         `json:"litigation"`
	CPC           string         `json:"cpc,omitempty"`
	SpecificTitle string         `json:"specificTitle,omitempty"`
	DocumentID    string         `json:"documentId,omitempty"`
}

// NewCommonFields returns an empty field set with the publication date type,
// matching the form's initial state.
func NewCommonFields() CommonFields {
	return CommonFields{
		DateType:      DatePublication,
		Inventors:     []DynamicEntry{},
		Assignees:     []DynamicEntry{},
		PatentOffices: []string{},
		Languages:     []string{},
	}
}

// IsEmpty reports whether no common field carries a value.
func (f CommonFields) IsEmpty() bool {
	return f.DateFrom == "" && f.DateTo == "" &&
		len(f.Inventors) == 0 && len(f.Assignees) == 0 &&
		len(f.PatentOffices) == 0 && len(f.Languages) == 0 &&
		f.Status == "" && f.PatentType == "" && f.Litigation == "" &&
		f.CPC == "" && f.SpecificTitle == "" && f.DocumentID == ""
}

// USPTOSettings carry the USPTO dialect's session options, serialized as
// SET directives ahead of the query expression.
type USPTOSettings struct {
	DefaultOperator    string   `json:"defaultOperator"`
	Plurals            bool     `json:"plurals"`
	BritishEquivalents bool     `json:"britishEquivalents"`
	SelectedDatabases  []string `json:"selectedDatabases"`
	Highlights         string   `json:"highlights"`
	ShowErrors         bool     `json:"showErrors"`
}

// DefaultUSPTOSettings mirror the Patent Public Search defaults.
func DefaultUSPTOSettings() USPTOSettings {
	return USPTOSettings{
		DefaultOperator:    "AND",
		Plurals:            true,
		BritishEquivalents: false,
		SelectedDatabases:  []string{"US-PGPUB", "USPAT", "USOCR"},
		Highlights:         "SINGLE_COLOR",
		ShowErrors:         true,
	}
}

// PatentStatuses, PatentTypes, LitigationValues enumerate the closed common
// field value spaces ('' meaning unset is always allowed).
var (
	PatentStatuses   = []string{"GRANT", "APPLICATION"}
	PatentTypes      = []string{"PATENT", "DESIGN", "PLANT", "REISSUE", "SIR", "UTILITY", "PROVISIONAL", "DEFENSIVE_PUBLICATION", "STATUTORY_INVENTION_REGISTRATION", "OTHER"}
	LitigationValues = []string{"YES", "NO"}
)

// Languages enumerates the supported publication language filters.
var Languages = []string{
	"ENGLISH", "GERMAN", "CHINESE", "FRENCH", "SPANISH", "ARABIC",
	"JAPANESE", "KOREAN", "PORTUGUESE", "RUSSIAN", "ITALIAN", "DUTCH",
	"SWEDISH", "FINNISH", "NORWEGIAN", "DANISH",
}

// PatentOffices enumerates the supported office codes.  "OTHER" is the open
// variant for codes outside the enumerated space.
var PatentOffices = []string{
	"US", "EP", "WO", "JP", "CN", "KR", "DE", "GB", "FR", "CA",
	"AE", "AG", "AL", "AM", "AO", "AP", "AR", "AT", "AU", "AW",
	"AZ", "BA", "BB", "BD", "BE", "BF", "BG", "BH", "BJ", "BN",
	"BO", "BR", "BW", "BX", "BY", "BZ", "CF", "CG", "CH", "CI",
	"CL", "CM", "CO", "CR", "CS", "CU", "CY", "CZ", "DD", "DJ",
	"DK", "DM", "DO", "DZ", "EA", "EC", "EE", "EG", "EM", "ES",
	"FI", "GA", "GC", "GD", "GE", "GH", "GM", "GN", "GQ", "GR",
	"GT", "GW", "HK", "HN", "HR", "HU", "IB", "ID", "IE", "IL",
	"IN", "IR", "IS", "IT", "JO", "KE", "KG", "KH", "KM", "KN",
	"KP", "KW", "KZ", "LA", "LC", "LI", "LK", "LR", "LS", "LT",
	"LU", "LV", "LY", "MA", "MC", "MD", "ME", "MG", "MK", "ML",
	"MN", "MO", "MR", "MT", "MW", "MX", "MY", "MZ", "NA", "NE",
	"NG", "NI", "NL", "NO", "OA", "OM", "PA", "PE", "PG", "PH",
	"PL", "PT", "PY", "QA", "RO", "RS", "RU", "RW", "SA", "SC",
	"SD", "SE", "SG", "SI", "SK", "SL", "SM", "SN", "ST", "SU",
	"SV", "SY", "SZ", "TD", "TG", "TH", "TJ", "TM", "TN", "TR",
	"TT", "TW", "TZ", "UA", "UG", "UY", "UZ", "VC", "VE", "VN",
	"YU", "ZA", "ZM", "ZW", "OTHER",
}

// ─────────────────────────────────────────────────────────────────────────────
// Wire DTOs
// ─────────────────────────────────────────────────────────────────────────────

// GenerateRequest is the body of POST /api/v1/query/generate.
type GenerateRequest struct {
	Format           Dialect           `json:"format"`
	SearchConditions []SearchCondition `json:"searchConditions"`
	GoogleLikeFields *CommonFields     `json:"googleLikeFields,omitempty"`
	USPTOSettings    *USPTOSettings    `json:"usptoSpecificSettings,omitempty"`
}

// GenerateResponse carries the assembled display string, the clickable URL
// (or the '#' sentinel), and an optional read-only AST debug artifact.
type GenerateResponse struct {
	QueryStringDisplay string          `json:"queryStringDisplay"`
	URL                string          `json:"url"`
	AST                json.RawMessage `json:"ast,omitempty"`
}

// ParseRequest is the body of POST /api/v1/query/parse.
type ParseRequest struct {
	Format      Dialect `json:"format"`
	QueryString string  `json:"queryString"`
}

// ParseResponse is the structured state recovered from a raw query string.
type ParseResponse struct {
	SearchConditions []SearchCondition `json:"searchConditions"`
	GoogleLikeFields CommonFields      `json:"googleLikeFields"`
	USPTOSettings    USPTOSettings     `json:"usptoSpecificSettings"`
}

// ConvertRequest is the body of POST /api/v1/query/convert.
type ConvertRequest struct {
	QueryString  string  `json:"query_string"`
	SourceFormat Dialect `json:"source_format"`
	TargetFormat Dialect `json:"target_format"`
}

// ConvertResponse carries a best-effort conversion.  Error is a user-visible
// string; a partial conversion may carry both fields.
type ConvertResponse struct {
	ConvertedText string         `json:"converted_text"`
	Error         string         `json:"error,omitempty"`
	Settings      *USPTOSettings `json:"settings,omitempty"`
}

// DetectResponse is the result of dialect detection.
type DetectResponse struct {
	Dialect Dialect `json:"dialect"`
}

//Personal.AI order the ending
