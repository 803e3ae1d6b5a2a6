// Package cli implements the zanatactl command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/p-blackswan/zanatactl/internal/config"
	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/metrics"
	"github.com/p-blackswan/zanatactl/internal/operation"
	"github.com/p-blackswan/zanatactl/internal/requestid"
	"github.com/p-blackswan/zanatactl/internal/zanata"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type options struct {
	argsFile  string
	operation string
	params    operation.Params
}

// paramFlags pairs each param flag with the param it sets.
var paramFlags = []struct{ flag, param string }{
	{"url", "url"},
	{"project-id", "project_id"},
	{"project-name", "project_name"},
	{"username", "username"},
	{"token", "token"},
	{"description", "description"},
	{"type", "type"},
	{"version", "version"},
}

// reportedError marks a failure whose JSON has already been written.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand builds the zanatactl command. Results go to stdout as JSON,
// logs go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "zanatactl",
		Short: "Manage Zanata translation projects",
		Long: `Run one operation against the Zanata REST API and print the result as JSON.

Operations: create_project, create_version, detail, modify, stats, config.
Write operations need --username and --token (or ZANATA_USERNAME / ZANATA_TOKEN).`,
		Example: `  zanatactl -o detail --url https://translate.zanata.org --project-id ZNTAPRJID
  zanatactl -o create_version --project-id ZNTAPRJID --version ZNTAPRJVER --username me --token $KEY
  zanatactl --args-file /tmp/args.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.argsFile, "args-file", "", "YAML or JSON file with params (top level or under ANSIBLE_MODULE_ARGS)")
	f.StringVarP(&opts.operation, "operation", "o", "", "operation to perform")
	f.StringVar(&opts.params.URL, "url", config.DefaultURL, "base URL of the Zanata instance (env ZANATA_URL)")
	f.StringVar(&opts.params.ProjectID, "project-id", "", "Zanata project id")
	f.StringVar(&opts.params.ProjectName, "project-name", "", "Zanata project name")
	f.StringVar(&opts.params.Username, "username", "", "Zanata username (env ZANATA_USERNAME)")
	f.StringVar(&opts.params.Token, "token", "", "Zanata API key for write operations (env ZANATA_TOKEN)")
	f.StringVar(&opts.params.Description, "description", "", "project description")
	f.StringVar(&opts.params.Type, "type", string(zanata.TypeFile), "project type: file, gettext, podir, properties, utf8properties, xliff, xml")
	f.StringVar(&opts.params.Version, "version", "", "project version")

	return cmd
}

// Execute runs zanatactl with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var re *reportedError
		if !errors.As(err, &re) {
			// flag parsing and argument errors never reach RunE
			_ = writeFailure(stdout, &perrors.ValidationError{Reason: err.Error()})
		}
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return report(stdout, &perrors.UnexpectedError{Err: err})
	}
	logger := newLogger(cfg, stderr)

	op, params, err := resolve(cmd.Flags(), opts, cfg)
	if err != nil {
		return report(stdout, err)
	}

	ctx, id := requestid.New(cmd.Context())
	logger.Debug().
		Str("request_id", id).
		Str("operation", string(op)).
		Str("url", params.URL).
		Str("project_id", params.ProjectID).
		Str("version", params.Version).
		Str("username", params.Username).
		Bool("token_set", params.Token != "").
		Msg("resolved parameters")

	dispatchOpts := []operation.Option{
		operation.WithClientOptions(
			zanata.WithTimeout(cfg.HTTPTimeout),
			zanata.WithUserAgent("zanatactl/"+Version),
		),
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled() {
		m = metrics.New()
		dispatchOpts = append(dispatchOpts, operation.WithMetrics(m))
	}

	res, runErr := operation.NewDispatcher(logger, dispatchOpts...).Run(ctx, op, params)

	if m != nil {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("failed to write metrics textfile")
		}
	}

	if runErr != nil {
		return report(stdout, runErr)
	}
	return writeResult(stdout, res)
}

// resolve merges params with precedence flags > args file > environment > defaults.
func resolve(flags *pflag.FlagSet, opts *options, cfg *config.Config) (operation.Operation, operation.Params, error) {
	p := operation.Params{
		URL:      cfg.URL,
		Username: cfg.Username,
		Token:    cfg.Token,
		Type:     string(zanata.TypeFile),
	}

	var opName string
	if opts.argsFile != "" {
		args, err := loadArgsFile(opts.argsFile)
		if err != nil {
			return "", p, err
		}
		for name, value := range args {
			if name == "operation" {
				opName = value
				continue
			}
			p.Set(name, value)
		}
	}

	if flags.Changed("operation") {
		opName = opts.operation
	}
	for _, pf := range paramFlags {
		if !flags.Changed(pf.flag) {
			continue
		}
		value, err := flags.GetString(pf.flag)
		if err != nil {
			return "", p, err
		}
		p.Set(pf.param, value)
	}

	if opName == "" {
		return "", p, perrors.NewMissingParams("", []string{"operation"})
	}
	op, err := operation.ParseOperation(opName)
	if err != nil {
		return "", p, err
	}
	return op, p, nil
}

func report(stdout io.Writer, err error) error {
	if werr := writeFailure(stdout, err); werr != nil {
		return werr
	}
	return &reportedError{err: err}
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).With().Timestamp().Logger()

	if cfg.Development() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		logger = logger.Level(level)
	}
	return logger
}
