package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// NewDetectCmd creates the detect command: report which dialect a query
// string most likely belongs to.
func NewDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <query-string>",
		Short: "Detect the dialect of a query string",
		Long: `Inspect a raw query string and report whether it looks like a Google
Patents or a USPTO Patent Public Search query.

Examples:
  patquery detect 'TTL/(solar ADJ cell)'
  patquery detect '(graphene) inventor:Doe country:US'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0])
		},
	}
}

func runDetect(cmd *cobra.Command, queryString string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	resp, err := cliCtx.API.Detect(ctx, queryString)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, resp)
	}

	switch resp.Dialect {
	case types.DialectGoogle:
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(string(resp.Dialect)))
	case types.DialectUSPTO:
		fmt.Fprintln(cmd.OutOrStdout(), color.CyanString(string(resp.Dialect)))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), string(resp.Dialect))
	}
	return nil
}

//Personal.AI order the ending
