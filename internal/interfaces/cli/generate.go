package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

var (
	genFormat          string
	genTexts           []string
	genScopes          string
	genTermOperator    string
	genCPCs            []string
	genChemTerms       []string
	genChemOperator    string
	genInventors       []string
	genAssignees       []string
	genDateFrom        string
	genDateTo          string
	genDateType        string
	genOffices         string
	genLanguages       string
	genStatus          string
	genPatentType      string
	genLitigation      string
	genDefaultOperator string
	genDatabases       string
	genHighlights      string
	genNoPlurals       bool
	genBritish         bool
	genURLOnly         bool
)

// NewGenerateCmd creates the generate command: structured conditions in,
// dialect query string and search URL out.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dialect query string from structured conditions",
		Long: `Assemble a Google Patents or USPTO Patent Public Search query from text,
classification, and chemistry conditions plus common filters.

Examples:
  patquery generate --format google --text "solar cell" --cpc H01L
  patquery generate --format uspto --text "battery electrode" --scope TI,AB
  patquery generate --format google --text graphene --inventor "Jane Doe" --date-from 2020-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&genFormat, "format", "f", "", "target dialect: google|uspto (required)")
	f.StringArrayVar(&genTexts, "text", nil, "text condition (repeatable)")
	f.StringVar(&genScopes, "scope", "", "text scopes applied to all text conditions: FT|TI|AB|CL|CPC (comma-separated)")
	f.StringVar(&genTermOperator, "term-operator", "ALL", "term combination: ALL|ANY|EXACT|NONE")
	f.StringArrayVar(&genCPCs, "cpc", nil, "CPC classification condition (repeatable)")
	f.StringArrayVar(&genChemTerms, "chem", nil, "chemistry condition term (repeatable)")
	f.StringVar(&genChemOperator, "chem-operator", "Exact", "chemistry operator: Exact|Similar|Substructure|SMARTS")
	f.StringArrayVar(&genInventors, "inventor", nil, "inventor name filter (repeatable)")
	f.StringArrayVar(&genAssignees, "assignee", nil, "assignee name filter (repeatable)")
	f.StringVar(&genDateFrom, "date-from", "", "date range start (YYYY-MM-DD)")
	f.StringVar(&genDateTo, "date-to", "", "date range end (YYYY-MM-DD)")
	f.StringVar(&genDateType, "date-type", "publication", "date type: priority|filing|publication")
	f.StringVar(&genOffices, "offices", "", "patent office filter (e.g. US,EP,WO)")
	f.StringVar(&genLanguages, "languages", "", "language filter (e.g. ENGLISH,GERMAN)")
	f.StringVar(&genStatus, "status", "", "status filter: GRANT|APPLICATION")
	f.StringVar(&genPatentType, "type", "", "patent type filter (e.g. PATENT, DESIGN)")
	f.StringVar(&genLitigation, "litigation", "", "litigation filter: YES|NO")
	f.StringVar(&genDefaultOperator, "default-operator", "AND", "USPTO default operator: AND|OR|ADJ")
	f.StringVar(&genDatabases, "databases", "", "USPTO databases (default US-PGPUB,USPAT,USOCR)")
	f.StringVar(&genHighlights, "highlights", "", "USPTO highlight mode")
	f.BoolVar(&genNoPlurals, "no-plurals", false, "disable USPTO plurals expansion")
	f.BoolVar(&genBritish, "british-equivalents", false, "enable USPTO British spelling equivalents")
	f.BoolVar(&genURLOnly, "url-only", false, "print only the search URL")
	cmd.MarkFlagRequired("format")

	return cmd
}

func runGenerate(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	req, err := buildGenerateRequest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	cliCtx.Logger.Debug("generating query",
		logging.String("dialect", string(req.Format)),
		logging.Int("conditions", len(req.SearchConditions)))

	resp, err := cliCtx.API.Generate(ctx, req)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, resp)
	}
	if genURLOnly {
		fmt.Fprintln(cmd.OutOrStdout(), resp.URL)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.QueryStringDisplay)
	if resp.URL != types.SentinelURL {
		fmt.Fprintln(cmd.OutOrStdout(), color.CyanString(resp.URL))
	}
	return nil
}

// buildGenerateRequest maps the flag set onto the wire request.
func buildGenerateRequest() (*types.GenerateRequest, error) {
	format := types.ParseDialect(genFormat)
	if !format.Valid() {
		return nil, errors.InvalidParam(fmt.Sprintf("invalid format %q (must be google|uspto)", genFormat))
	}

	scopes, err := parseScopes(genScopes)
	if err != nil {
		return nil, err
	}
	termOp, err := parseTermOperator(genTermOperator)
	if err != nil {
		return nil, err
	}

	conditions := make([]types.SearchCondition, 0, len(genTexts)+len(genCPCs)+len(genChemTerms))
	for _, text := range genTexts {
		c := types.NewTextConditionWithText(text)
		c.Text.SelectedScopes = scopes
		c.Text.TermOperator = termOp
		conditions = append(conditions, c)
	}
	for _, cpc := range genCPCs {
		conditions = append(conditions, types.SearchCondition{
			ID:             uuid.New().String(),
			Type:           types.ConditionClassification,
			Classification: &types.ClassificationData{CPC: cpc, Option: types.ClassChildren},
		})
	}
	for _, term := range genChemTerms {
		conditions = append(conditions, types.SearchCondition{
			ID:   uuid.New().String(),
			Type: types.ConditionChemistry,
			Chemistry: &types.ChemistryData{
				Term:     term,
				Operator: types.ChemOperatorFromLabel(genChemOperator),
				DocScope: types.ChemScopeFull,
			},
		})
	}
	if len(conditions) == 0 {
		return nil, errors.InvalidParam("at least one --text, --cpc, or --chem condition is required")
	}

	common := types.NewCommonFields()
	common.DateFrom = genDateFrom
	common.DateTo = genDateTo
	if genDateType != "" {
		dt := types.DateType(strings.ToLower(genDateType))
		if !dt.Valid() {
			return nil, errors.InvalidParam(fmt.Sprintf("invalid date-type %q (must be priority|filing|publication)", genDateType))
		}
		common.DateType = dt
	}
	for _, inv := range genInventors {
		common.Inventors = append(common.Inventors, types.NewDynamicEntry(inv))
	}
	for _, asg := range genAssignees {
		common.Assignees = append(common.Assignees, types.NewDynamicEntry(asg))
	}
	common.PatentOffices = splitUpper(genOffices)
	common.Languages = splitUpper(genLanguages)
	common.Status = strings.ToUpper(strings.TrimSpace(genStatus))
	common.PatentType = strings.ToUpper(strings.TrimSpace(genPatentType))
	common.Litigation = strings.ToUpper(strings.TrimSpace(genLitigation))

	settings := types.DefaultUSPTOSettings()
	if genDefaultOperator != "" {
		settings.DefaultOperator = strings.ToUpper(genDefaultOperator)
	}
	if genDatabases != "" {
		settings.SelectedDatabases = splitUpper(genDatabases)
	}
	if genHighlights != "" {
		settings.Highlights = genHighlights
	}
	settings.Plurals = !genNoPlurals
	settings.BritishEquivalents = genBritish

	return &types.GenerateRequest{
		Format:           format,
		SearchConditions: conditions,
		GoogleLikeFields: &common,
		USPTOSettings:    &settings,
	}, nil
}

func parseScopes(input string) ([]types.TextScope, error) {
	if strings.TrimSpace(input) == "" {
		return []types.TextScope{types.ScopeFullText}, nil
	}

	valid := map[types.TextScope]bool{
		types.ScopeFullText: true,
		types.ScopeTitle:    true,
		types.ScopeAbstract: true,
		types.ScopeClaims:   true,
		types.ScopeCPC:      true,
	}

	parts := strings.Split(input, ",")
	scopes := make([]types.TextScope, 0, len(parts))
	for _, part := range parts {
		scope := types.TextScope(strings.ToUpper(strings.TrimSpace(part)))
		if scope == "" {
			continue
		}
		if !valid[scope] {
			return nil, errors.InvalidParam(fmt.Sprintf("invalid scope %q (must be FT|TI|AB|CL|CPC)", part))
		}
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		return []types.TextScope{types.ScopeFullText}, nil
	}
	// Full-text subsumes every other scope.
	for _, s := range scopes {
		if s == types.ScopeFullText && len(scopes) > 1 {
			return nil, errors.InvalidParam("scope FT cannot be combined with other scopes")
		}
	}
	return scopes, nil
}

func parseTermOperator(input string) (types.TermOperator, error) {
	op := types.TermOperator(strings.ToUpper(strings.TrimSpace(input)))
	switch op {
	case types.TermAll, types.TermAny, types.TermExact, types.TermNone:
		return op, nil
	case "":
		return types.TermAll, nil
	default:
		return "", errors.InvalidParam(fmt.Sprintf("invalid term-operator %q (must be ALL|ANY|EXACT|NONE)", input))
	}
}

func splitUpper(input string) []string {
	if input == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToUpper(strings.TrimSpace(part))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

//Personal.AI order the ending
