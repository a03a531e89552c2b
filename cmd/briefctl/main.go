// main.go bootstraps briefctl: it builds the root Cobra command, wires the
// shared options, and executes with signal-aware contexts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/config"
	"github.com/example/briefctl/internal/logging"
	"github.com/example/briefctl/internal/poller"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

// root carries what every subcommand needs once the root's PersistentPreRunE
// has run: validated options and a constructed logger.
type root struct {
	opts     *config.Options
	logLevel string
	logger   *zap.Logger
}

func (r *root) client() *api.Client {
	return api.NewClient(r.opts.BaseURL, r.opts.Token)
}

func (r *root) pollerOptions() poller.Options {
	return poller.Options{
		Interval: r.opts.PollInterval,
		MaxWait:  r.opts.MaxWait,
		Backoff:  r.opts.Backoff,
	}
}

func newRootCommand() *cobra.Command {
	r := &root{opts: config.NewOptions(), logLevel: "info"}
	cmd := &cobra.Command{
		Use:           "briefctl",
		Short:         "CLI dashboard for the brief generation backend",
		Long:          "briefctl submits brief generation jobs, follows their progress, and renders the finished report as overview, company, audit and debug views.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := r.opts.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(r.logLevel)
			if err != nil {
				return err
			}
			r.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if r.logger != nil {
				_ = r.logger.Sync()
			}
		},
	}
	r.opts.AddFlags(cmd)
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", r.logLevel, "Log level for briefctl output (debug, info, warn, error)")

	generateCmd := newGenerateCommand(r)
	statusCmd := newStatusCommand(r)
	debugCmd := newDebugCommand(r)
	dbCmd := newDBCommand(r)
	cmd.AddCommand(generateCmd, statusCmd, debugCmd, dbCmd, newVersionCommand())

	cmd.Example = strings.TrimPrefix(`
  # Generate a brief for a watchlist and follow it interactively
  briefctl generate --watchlist wl-123 --start 2025-08-01 --end 2025-08-07 --interactive

  # Generate for explicit companies with novelty filtering disabled
  briefctl generate --company AAPL_ID --company MSFT_ID --novelty=false

  # Check on a running job
  briefctl status 8f14e45f-ceea-4e6f-8d5a-6a9c6a2a8f21 --wait

  # Inspect what the novelty filter kept and discarded
  briefctl debug 8f14e45f-ceea-4e6f-8d5a-6a9c6a2a8f21

  # Summarize the backend database
  briefctl db status --reports --bullets`, "\n")

	bindViper(cmd, generateCmd, statusCmd, debugCmd, dbCmd)
	return cmd
}

func bindViper(commands ...*cobra.Command) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("BRIEFCTL")
	v.AutomaticEnv()
	if configFile := os.Getenv("BRIEFCTL_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/briefctl")
		}
		v.AddConfigPath(".")
	}

	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
			if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		if err := v.ReadInConfig(); err != nil {
			var cfgErr viper.ConfigFileNotFoundError
			if !errors.As(err, &cfgErr) && os.Getenv("BRIEFCTL_CONFIG") != "" {
				cobra.CheckErr(err)
			}
		}
		for _, cmd := range commands {
			for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Changed || !v.IsSet(f.Name) {
						return
					}
					if val := fmt.Sprintf("%v", v.Get(f.Name)); val != "" {
						_ = f.Value.Set(val)
					}
				})
			}
		}
	})
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, poller.ErrTimedOut):
		message = fmt.Sprintf("%s\nHint: increase --max-wait or check the backend's workflow logs.", err)
	case errors.Is(err, poller.ErrJobFailed):
		message = fmt.Sprintf("%s\nHint: run 'briefctl status <request-id>' to see the generation log.", err)
	case errors.Is(err, api.ErrDebugNotFound):
		message = fmt.Sprintf("%s\nHint: debug data is only collected when novelty filtering is enabled.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
