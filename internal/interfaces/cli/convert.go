package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

var (
	convertFrom string
	convertTo   string
)

// NewConvertCmd creates the convert command: translate a query string from
// one dialect to the other.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <query-string>",
		Short: "Convert a query string between dialects",
		Long: `Translate a query string from one dialect to the other.  Constructs with
no equivalent in the target dialect are dropped and reported as a warning;
the conversion itself still succeeds.

Examples:
  patquery convert --from google --to uspto '(solar NEAR5 cell) inventor:Doe'
  patquery convert --to google 'TTL/(battery ADJ electrode)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&convertFrom, "from", "", "source dialect: google|uspto (auto-detected when omitted)")
	cmd.Flags().StringVar(&convertTo, "to", "", "target dialect: google|uspto (required)")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(cmd *cobra.Command, queryString string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	target := types.ParseDialect(convertTo)
	if !target.Valid() {
		return errors.InvalidParam(fmt.Sprintf("invalid target dialect %q (must be google|uspto)", convertTo))
	}

	source := types.ParseDialect(convertFrom)
	if convertFrom != "" && !source.Valid() {
		return errors.InvalidParam(fmt.Sprintf("invalid source dialect %q (must be google|uspto)", convertFrom))
	}
	if convertFrom == "" {
		detected, err := cliCtx.API.Detect(ctx, queryString)
		if err != nil {
			return err
		}
		if !detected.Dialect.Valid() {
			return errors.InvalidParam("could not detect the source dialect; pass --from explicitly")
		}
		source = detected.Dialect
		cliCtx.Logger.Debug("source dialect auto-detected", logging.String("dialect", string(source)))
	}

	resp, err := cliCtx.API.Convert(ctx, &types.ConvertRequest{
		QueryString:  queryString,
		SourceFormat: source,
		TargetFormat: target,
	})
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, resp)
	}

	PrintWarning(cmd, resp.Error)
	fmt.Fprintln(cmd.OutOrStdout(), resp.ConvertedText)
	return nil
}

//Personal.AI order the ending
