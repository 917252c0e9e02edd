package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/adapters/outbound/config"
	"github.com/invoicer/invoicer/internal/adapters/outbound/logging"
	"github.com/invoicer/invoicer/internal/app"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (o *rootOptions) logger(cmd *cobra.Command) (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	if o.logLevel != "" {
		cfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Format = o.logFormat
	}
	cfg.Output = cmd.ErrOrStderr()
	return logging.New(cfg)
}

// load reads the config and wires the services for one command.
func (o *rootOptions) load(cmd *cobra.Command) (*app.App, error) {
	logger, err := o.logger(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.Load(o.configPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded",
		zap.String("path", o.configPath),
		zap.String("output_dir", a.Config.OutputDir))
	return a, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "invoicer",
		Short: "Generate monthly invoices in EUR and tokens",
		Long: "Invoicer generates numbered monthly invoices from a USD amount, converted to EUR " +
			"with ECB reference rates and to a token with CoinMarketCap quotes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "Path to the invoicer config file")
	defaults := logging.DefaultConfig()
	flags.StringVar(&opts.logLevel, "log-level", defaults.Level, "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", defaults.Format, "Log format (console, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newPlanCmd(opts))
	cmd.AddCommand(newRateCmd(opts))
	cmd.AddCommand(newPDFCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command. An interrupt cancels the command context,
// which aborts in-flight rate lookups and PDF rendering.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
