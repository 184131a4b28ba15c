// Package cli implements the patquery command-line interface: a thin front
// end over the query-builder engine that can run fully offline (in-process
// engine) or against a remote API server via the SDK client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatQuery-Bridge/internal/application/query"
	"github.com/turtacn/PatQuery-Bridge/internal/config"
	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatQuery-Bridge/pkg/client"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// QueryAPI is the operation surface the CLI commands run against.  Both the
// in-process application service and the SDK's QueryClient satisfy it, so a
// command neither knows nor cares whether a server is involved.
type QueryAPI interface {
	Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error)
	Parse(ctx context.Context, req *types.ParseRequest) (*types.ParseResponse, error)
	Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error)
	Detect(ctx context.Context, queryString string) (*types.DetectResponse, error)
}

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	API          QueryAPI
	OutputFormat string
	Timeout      time.Duration
	Verbose      bool
	NoColor      bool
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "patquery",
		Short:   "PatQuery-Bridge CLI — build, parse, and convert patent search queries",
		Long:    "patquery builds search queries for Google Patents and USPTO Patent Public\nSearch from structured conditions, parses raw query strings back into\nstructured form, and translates queries between the two dialects.\n\nBy default commands run the query engine in-process; pass --server to run\nthem against a PatQuery-Bridge API server instead.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./patquery.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address; empty runs the engine in-process")

	cmd.AddCommand(
		NewGenerateCmd(),
		NewParseCmd(),
		NewConvertCmd(),
		NewDetectCmd(),
	)

	return cmd
}

// persistentPreRun initializes config, logger, and the query API, then stores
// a CLIContext on the command's context for subcommands to pick up.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	api, err := initAPI(cfg, opts, logger)
	if err != nil {
		return fmt.Errorf("query API initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		API:          api,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
	}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)

	return nil
}

// initConfig loads configuration with priority: --config flag > default file
// locations > environment variables and defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./patquery.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".patquery", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/patquery/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}

	return config.LoadFromEnv()
}

// initLogger creates a console logger on stderr so command output on stdout
// stays clean for piping.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// initAPI picks the backend: a remote SDK client when --server is set,
// otherwise the in-process engine.
func initAPI(cfg *config.Config, opts *RootOptions, logger logging.Logger) (QueryAPI, error) {
	if opts.ServerAddr == "" {
		return newLocalEngine(logger), nil
	}

	c, err := client.NewClient(opts.ServerAddr,
		client.WithTimeout(opts.Timeout),
		client.WithRetryMax(cfg.Client.MaxRetries),
	)
	if err != nil {
		return nil, err
	}
	return c.Query(), nil
}

// newLocalEngine wires the application service with no cache and no metrics,
// which is all a one-shot CLI invocation needs.
func newLocalEngine(logger logging.Logger) QueryAPI {
	return query.NewService(nopCache{}, serviceLogger{logger}, nopMetrics{})
}

type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.NotFound("cache disabled")
}

func (nopCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	return nil
}

type nopMetrics struct{}

func (nopMetrics) IncCounter(name string, labels map[string]string)                      {}
func (nopMetrics) ObserveHistogram(name string, value float64, labels map[string]string) {}

// serviceLogger adapts the structured logger to the application service's
// keysAndValues logging surface.
type serviceLogger struct {
	l logging.Logger
}

func kvFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, logging.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (s serviceLogger) Debug(_ context.Context, msg string, kv ...interface{}) {
	s.l.Debug(msg, kvFields(kv)...)
}

func (s serviceLogger) Info(_ context.Context, msg string, kv ...interface{}) {
	s.l.Info(msg, kvFields(kv)...)
}

func (s serviceLogger) Warn(_ context.Context, msg string, kv ...interface{}) {
	s.l.Warn(msg, kvFields(kv)...)
}

func (s serviceLogger) Error(_ context.Context, msg string, kv ...interface{}) {
	s.l.Error(msg, kvFields(kv)...)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialized")
	}

	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}

	return nil
}

// printJSON outputs data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintWarning writes a lossy-conversion or validation warning to stderr so
// stdout carries only the result.
func PrintWarning(cmd *cobra.Command, msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.YellowString("Warning:"), msg)
}

// truncateString shortens s to max runes with an ellipsis.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

//Personal.AI order the ending
