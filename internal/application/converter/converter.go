// Package converter composes the dialect parsers and generators into the
// cross-dialect translation pipeline.  Conversion is best-effort end to end:
// the result always carries whatever text could be produced, with a
// user-visible warning when fidelity was lost.
package converter

import (
	"strings"

	"github.com/turtacn/PatQuery-Bridge/internal/application/generator"
	"github.com/turtacn/PatQuery-Bridge/internal/application/parser"
	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Convert translates a query string between dialects.  Identical source and
// target dialects echo the input back unchanged.  The error return is reserved
// for unusable requests; translation problems travel inside the response.
func Convert(req types.ConvertRequest) (*types.ConvertResponse, error) {
	source := req.SourceFormat
	target := req.TargetFormat
	if !source.Valid() || !target.Valid() {
		return nil, errors.New(errors.ErrCodeParseUnsupportedDialect, "conversion requires two concrete dialects")
	}
	if source == target {
		return &types.ConvertResponse{ConvertedText: req.QueryString}, nil
	}

	root := parseDialect(req.QueryString, source)

	if term, ok := root.Query.(*ast.Term); ok {
		if term.Value == generator.EmptyTermValue {
			return &types.ConvertResponse{ConvertedText: ""}, nil
		}
		if strings.HasPrefix(term.Value, "PARSE_ERROR:") {
			return &types.ConvertResponse{
				ConvertedText: req.QueryString,
				Error:         errors.DefaultMessageForCode(errors.ErrCodeParseFailed),
			}, nil
		}
	}

	text, err := generateDialect(root, target)
	if err != nil {
		// The tree parsed but part of it has no equivalent on the other side.
		return &types.ConvertResponse{
			ConvertedText: text,
			Error:         conversionWarning(err),
		}, nil
	}

	resp := &types.ConvertResponse{ConvertedText: text}
	if target == types.DialectUSPTO {
		settings := settingsFromRoot(root)
		resp.Settings = &settings
		if prefix := usptoSetPrefix(settings); prefix != "" && text != "" {
			resp.ConvertedText = prefix + " " + text
		}
	}
	return resp, nil
}

func parseDialect(query string, dialect types.Dialect) *ast.QueryRoot {
	if dialect == types.DialectUSPTO {
		return parser.ParseUSPTO(query)
	}
	return parser.ParseGoogle(query)
}

func generateDialect(root *ast.QueryRoot, dialect types.Dialect) (string, error) {
	if dialect == types.DialectUSPTO {
		return generator.USPTO(root)
	}
	return generator.Google(root)
}

func settingsFromRoot(root *ast.QueryRoot) types.USPTOSettings {
	settings := types.DefaultUSPTOSettings()
	if root == nil || root.Settings == nil {
		return settings
	}
	if op, ok := root.Settings["defaultoperator"].(string); ok && op != "" {
		settings.DefaultOperator = strings.ToUpper(op)
	}
	if v, ok := root.Settings["plural"].(string); ok {
		settings.Plurals = strings.EqualFold(v, "ON")
	}
	if v, ok := root.Settings["britishequivalent"].(string); ok {
		settings.BritishEquivalents = strings.EqualFold(v, "ON")
	}
	return settings
}

// usptoSetPrefix renders the SET directive for the converted query.  The
// default AND operator is left implicit, matching what the engine assumes.
func usptoSetPrefix(settings types.USPTOSettings) string {
	assigns := make([]string, 0, 3)
	op := strings.ToUpper(strings.TrimSpace(settings.DefaultOperator))
	if op != "" && op != "AND" {
		assigns = append(assigns, "DefaultOperator="+op)
	}
	assigns = append(assigns, "Plural="+onOff(settings.Plurals))
	assigns = append(assigns, "BritishEquivalent="+onOff(settings.BritishEquivalents))
	return "SET " + strings.Join(assigns, ",")
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func conversionWarning(err error) string {
	if errors.IsCode(err, errors.ErrCodeConvertUnsupported) {
		return err.Error()
	}
	return errors.DefaultMessageForCode(errors.ErrCodeConvertFailed)
}

//Personal.AI order the ending
