package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/stripe-guide/internal/util"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flags shared by every command; applied on top of the environment.
type globalFlags struct {
	dsn   string
	theme string
	port  int
}

func (f globalFlags) config() (util.Config, error) {
	cfg, err := util.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if f.dsn != "" {
		cfg.DSN = f.dsn
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if f.port != 0 {
		cfg.APIPort = f.port
	}
	cfg.Version = version
	return cfg, cfg.Validate()
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "stripe-guide",
		Short:         "An interactive terminal walkthrough of Stripe's payment APIs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			return runGuide(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "PostgreSQL DSN (overrides DATABASE_URL)")
	root.Flags().StringVar(&flags.theme, "theme", "", "Color theme: stripe|catppuccin|dracula|paper")

	root.AddCommand(
		newServeCmd(&flags),
		newMigrateCmd(&flags),
		newScenesCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stripe-guide", version)
		},
	}
}
