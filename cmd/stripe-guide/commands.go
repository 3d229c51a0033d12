package main

import (
	"context"
	errs "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/DaanHessen/stripe-guide/internal/api"
	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/payments"
	"github.com/DaanHessen/stripe-guide/internal/store"
	"github.com/DaanHessen/stripe-guide/internal/ui"
	"github.com/DaanHessen/stripe-guide/internal/util"
)

func runGuide(ctx context.Context, cfg util.Config) error {
	log, closeLog, err := util.NewFileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	idx, err := defaultIndex()
	if err != nil {
		log.Error().Err(err).Msg("scene graph rejected")
		return err
	}
	svc, closeDB := newPayments(ctx, cfg, log)
	defer closeDB()

	err = ui.Run(ctx, ui.Options{
		Index:    idx,
		Loader:   content.NewLibrary(),
		Payments: svc,
		Logger:   log,
		Theme:    cfg.Theme,
		Origin:   cfg.Origin,
	})
	if errs.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func defaultIndex() (*engine.Index, error) {
	g, err := engine.DefaultGraph()
	if err != nil {
		return nil, err
	}
	return engine.NewIndex(g)
}

// newPayments builds the demo payment service. Persistence is optional: without
// a reachable database, payments are created but not recorded.
func newPayments(ctx context.Context, cfg util.Config, log zerolog.Logger) (*payments.Service, func()) {
	var (
		rec     payments.Recorder = payments.NopRecorder{}
		closeFn                   = func() {}
	)
	if cfg.DSN != "" {
		openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		db, err := store.Open(openCtx, cfg.DSN)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("demo payment log disabled")
		} else {
			rec = store.NewPaymentRepo(db)
			closeFn = func() { _ = db.Close() }
		}
	}
	opts := payments.Options{Amount: cfg.DemoAmount, Currency: cfg.DemoCurrency, Product: cfg.DemoProduct}
	return payments.NewService(payments.NewStripeGateway(cfg.StripeSecretKey), rec, opts, log), closeFn
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy that creates demo payments for a browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			log := util.NewConsoleLogger(cfg)
			idx, err := defaultIndex()
			if err != nil {
				return err
			}
			svc, closeDB := newPayments(cmd.Context(), cfg, log)
			defer closeDB()
			if !svc.Enabled() {
				log.Warn().Msg("STRIPE_SECRET_KEY not set; payment endpoints will answer 503")
			}
			gin.SetMode(gin.ReleaseMode)
			srv := api.NewServer(svc, idx, api.Options{Origin: cfg.Origin}, log)
			return srv.Run(cmd.Context(), fmt.Sprintf(":%d", cfg.APIPort))
		},
	}
	cmd.Flags().IntVar(&flags.port, "port", 0, "Listen port (overrides API_PORT)")
	return cmd
}

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|version",
		Short:     "Apply or roll back the demo payment schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			log := util.NewConsoleLogger(cfg)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			migrator, err := store.NewMigrator(cfg.DSN)
			if err != nil {
				return err
			}
			switch args[0] {
			case "up":
				if err := migrator.Up(ctx); err != nil && !errs.Is(err, store.ErrNoChange) {
					return err
				}
				log.Info().Msg("migrations applied")
			case "down":
				if err := migrator.Down(ctx); err != nil && !errs.Is(err, store.ErrNoChange) {
					return err
				}
				log.Info().Msg("migrations rolled back")
			case "version":
				v, dirty, err := migrator.Version(ctx)
				if err != nil {
					return err
				}
				log.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
			}
			return nil
		},
	}
}

func newScenesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Validate a scene graph and print its acts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(file)
			if err != nil {
				return err
			}
			idx, err := engine.NewIndex(g)
			if err != nil {
				return errors.Wrap(err, "invalid scene graph")
			}
			return printScenes(cmd.OutOrStdout(), idx)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML scene graph to check instead of the built-in one")
	return cmd
}

func readGraph(path string) (*engine.Graph, error) {
	if path == "" {
		return engine.DefaultGraph()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene graph")
	}
	defer f.Close()
	return engine.LoadGraph(f)
}

func printScenes(w io.Writer, idx *engine.Index) error {
	for _, g := range idx.ActGroups() {
		title := content.ActTitle(g.Act)
		if title == "" {
			title = "untitled"
		}
		if _, err := fmt.Fprintf(w, "Act %d: %s\n", g.Act, title); err != nil {
			return err
		}
		for _, n := range g.Scenes {
			var marks []string
			if n.ID == idx.Start() {
				marks = append(marks, "start")
			}
			if b, ok := idx.BranchMeta(n.ID); ok {
				marks = append(marks, "branch "+strings.TrimSpace(b.Emoji+" "+b.Label))
			}
			if n.Terminal() {
				marks = append(marks, "end")
			}
			if !idx.Reachable(n.ID) {
				marks = append(marks, "unreachable")
			}
			line := fmt.Sprintf("  %-20s %s", n.ID, content.Title(n.ID))
			if len(marks) > 0 {
				line += "  [" + strings.Join(marks, ", ") + "]"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d scenes, %d reachable from %s\n", idx.Len(), idx.ReachableCount(), idx.Start())
	return err
}
