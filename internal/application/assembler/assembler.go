// Package assembler turns the structured condition list and common fields into
// a single flat query string plus a clickable search-engine URL, for either
// supported dialect.  Assembly is a pure function of its inputs: no hidden
// state, and any condition list is tolerated, including an all-blank one.
package assembler

import (
	domainquery "github.com/turtacn/PatQuery-Bridge/internal/domain/query"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Input is everything assembly depends on.
type Input struct {
	Dialect    types.Dialect
	Conditions []types.SearchCondition
	Common     types.CommonFields
	USPTO      types.USPTOSettings
}

// Result is the assembled output.  When no fragment survives, DisplayString is
// empty and URL is the '#' sentinel.
type Result struct {
	DisplayString string
	URL           string
}

// Assemble produces the display string and URL for the input's dialect.
// A single invalid text condition invalidates the whole form: the error is
// returned and no partial query is produced.
func Assemble(in Input) (*Result, error) {
	if !in.Dialect.Valid() {
		return nil, errors.New(errors.ErrCodeParseUnsupportedDialect, "cannot assemble for dialect").
			WithDetail(string(in.Dialect))
	}

	for _, c := range in.Conditions {
		if c.Type == types.ConditionText && c.Text != nil {
			if err := domainquery.ValidateConditionText(c.Text.Text); err != nil {
				return nil, err
			}
		}
	}
	if err := domainquery.ValidateDate(in.Common.DateFrom); err != nil {
		return nil, err
	}
	if err := domainquery.ValidateDate(in.Common.DateTo); err != nil {
		return nil, err
	}

	switch in.Dialect {
	case types.DialectUSPTO:
		return assembleUSPTO(in.Conditions, in.Common, in.USPTO)
	default:
		return assembleGoogle(in.Conditions, in.Common)
	}
}

// emptyResult is the canonical "no valid query yet" output.
func emptyResult() *Result {
	return &Result{DisplayString: "", URL: types.SentinelURL}
}

//Personal.AI order the ending
