package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

var parseFormat string

// NewParseCmd creates the parse command: raw query string in, structured
// builder state out.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <query-string>",
		Short: "Parse a raw query string into structured conditions",
		Long: `Recover the structured condition list and common filters from a raw
query string.  The dialect is auto-detected unless --format is given.

Examples:
  patquery parse '(solar cell) inventor:Doe'
  patquery parse --format uspto 'TTL/(battery ADJ electrode)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&parseFormat, "format", "f", "", "source dialect: google|uspto (auto-detected when omitted)")

	return cmd
}

func runParse(cmd *cobra.Command, queryString string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	format := types.ParseDialect(parseFormat)
	if parseFormat != "" && !format.Valid() {
		return errors.InvalidParam(fmt.Sprintf("invalid format %q (must be google|uspto)", parseFormat))
	}
	if parseFormat == "" {
		detected, err := cliCtx.API.Detect(ctx, queryString)
		if err != nil {
			return err
		}
		if !detected.Dialect.Valid() {
			return errors.InvalidParam("could not detect the query dialect; pass --format explicitly")
		}
		format = detected.Dialect
		cliCtx.Logger.Debug("dialect auto-detected", logging.String("dialect", string(format)))
	}

	resp, err := cliCtx.API.Parse(ctx, &types.ParseRequest{
		Format:      format,
		QueryString: queryString,
	})
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, resp)
	}
	printParseResult(cmd, format, resp)
	return nil
}

func printParseResult(cmd *cobra.Command, format types.Dialect, resp *types.ParseResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dialect: %s\n\n", format)

	if len(resp.SearchConditions) == 0 {
		fmt.Fprintln(out, "No search conditions recovered.")
	} else {
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"#", "Type", "Content", "Details"})
		for i, c := range resp.SearchConditions {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				string(c.Type),
				truncateString(conditionContent(c), 50),
				truncateString(conditionDetails(c), 40),
			})
		}
		table.Render()
	}

	if summary := commonFieldsSummary(resp.GoogleLikeFields); len(summary) > 0 {
		fmt.Fprintln(out, "\nCommon fields:")
		for _, line := range summary {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

func conditionContent(c types.SearchCondition) string {
	switch c.Type {
	case types.ConditionText:
		if c.Text != nil {
			return c.Text.Text
		}
	case types.ConditionClassification:
		if c.Classification != nil {
			return c.Classification.CPC
		}
	case types.ConditionChemistry:
		if c.Chemistry != nil {
			return c.Chemistry.Term
		}
	case types.ConditionMeasure:
		if c.Measure != nil {
			return strings.TrimSpace(c.Measure.Measurements + " " + c.Measure.UnitsConcepts)
		}
	case types.ConditionNumbers:
		if c.Numbers != nil {
			return strings.ReplaceAll(c.Numbers.DocIDsText, "\n", ", ")
		}
	}
	return ""
}

func conditionDetails(c types.SearchCondition) string {
	switch c.Type {
	case types.ConditionText:
		if c.Text != nil {
			scopes := make([]string, len(c.Text.SelectedScopes))
			for i, s := range c.Text.SelectedScopes {
				scopes[i] = string(s)
			}
			return fmt.Sprintf("scopes=%s op=%s", strings.Join(scopes, ","), c.Text.TermOperator)
		}
	case types.ConditionClassification:
		if c.Classification != nil {
			return fmt.Sprintf("option=%s", c.Classification.Option)
		}
	case types.ConditionChemistry:
		if c.Chemistry != nil {
			return fmt.Sprintf("operator=%s", c.Chemistry.Operator)
		}
	case types.ConditionNumbers:
		if c.Numbers != nil && c.Numbers.NumberType != "" {
			return fmt.Sprintf("type=%s", c.Numbers.NumberType)
		}
	}
	return ""
}

func commonFieldsSummary(f types.CommonFields) []string {
	var lines []string
	if f.DateFrom != "" || f.DateTo != "" {
		lines = append(lines, fmt.Sprintf("date: %s .. %s (%s)", f.DateFrom, f.DateTo, f.DateType))
	}
	if len(f.Inventors) > 0 {
		vals := make([]string, len(f.Inventors))
		for i, e := range f.Inventors {
			vals[i] = e.Value
		}
		lines = append(lines, "inventors: "+strings.Join(vals, ", "))
	}
	if len(f.Assignees) > 0 {
		vals := make([]string, len(f.Assignees))
		for i, e := range f.Assignees {
			vals[i] = e.Value
		}
		lines = append(lines, "assignees: "+strings.Join(vals, ", "))
	}
	if len(f.PatentOffices) > 0 {
		lines = append(lines, "offices: "+strings.Join(f.PatentOffices, ", "))
	}
	if len(f.Languages) > 0 {
		lines = append(lines, "languages: "+strings.Join(f.Languages, ", "))
	}
	if f.Status != "" {
		lines = append(lines, "status: "+f.Status)
	}
	if f.PatentType != "" {
		lines = append(lines, "type: "+f.PatentType)
	}
	if f.Litigation != "" {
		lines = append(lines, "litigation: "+f.Litigation)
	}
	return lines
}

//Personal.AI order the ending
