// Package cli implements the finchart command line.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	fasthttpprometheus "github.com/flf2ko/fasthttp-prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"FinChart/internal/config"
	"FinChart/internal/logging"
	"FinChart/internal/notifier"
	"FinChart/internal/recorder"
	"FinChart/internal/scheduler"
	"FinChart/internal/server"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "finchart",
		Short:         "FinChart - price history area charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().String("config", defaultPath, "Configuration file path")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newLoadsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// setup loads and validates the configuration and configures logging.
func setup(cmd *cobra.Command, console bool) (*config.Config, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}
	closer, err := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Console:    console && cfg.ConsoleLogging(),
	}, "finchart")
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart page over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer closer.Close()
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	a, err := newApp(cfg, prometheusMetrics())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(a.svc, a.loader, 2*cfg.History.Timeout)
	p := fasthttpprometheus.NewPrometheus(cfg.Server.MetricsSubsystem)
	httpServer := &fasthttp.Server{
		Name:    "finchart",
		Handler: p.WrapHandler(srv.Router()),
	}

	var tn *notifier.TelegramNotifier
	if cfg.AlertsEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	if cfg.Export.Cron != "" {
		var alerter scheduler.Alerter
		if tn != nil {
			alerter = tn
		}
		sched := scheduler.NewScheduler(ctx, a.svc, a.loader.Source(), cfg.Export.Path, alerter, a.recorder)
		if err := sched.Register(cfg.Export.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		if tn != nil {
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info("telegram polling started")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting http server")
		errCh <- httpServer.ListenAndServe(cfg.Server.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig).Info("shutdown signal received, stopping...")
	case err := <-errCh:
		return fmt.Errorf("server run failure: %w", err)
	}

	cancel()
	if err := httpServer.Shutdown(); err != nil {
		log.Errorf("server shutdown failure: %v", err)
	}
	log.Info("finchart stopped")
	return nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load the price history once and write the chart page",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			cfg, closer, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := newApp(cfg, discardMetrics())
			if err != nil {
				return err
			}
			defer a.Close()
			return runRender(cmd.Context(), a, out, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output file (stdout if empty)")
	return cmd
}

// runRender writes the chart page, or the failure page if the load fails,
// to out and a summary to status.
func runRender(ctx context.Context, a *app, out string, stdout, status io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, loadErr := a.svc.Initialize(ctx)

	var page bytes.Buffer
	if loadErr != nil {
		if err := a.loader.RenderFailure(&page, loadErr); err != nil {
			return fmt.Errorf("render failure page: %w", err)
		}
	} else {
		page.Write(res.Page)
	}

	if out == "" {
		if _, err := stdout.Write(page.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(out, page.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if loadErr != nil {
		fmt.Fprintln(status, renderFailure(loadErr))
		return loadErr
	}
	fmt.Fprintln(status, renderSummary(res, out))
	return nil
}

func newLoadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loads",
		Short: "List recent chart loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			cfg, closer, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer rec.Close()

			events, err := rec.RecentLoads(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderLoads(events))
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of loads to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finchart %s\n", Version)
		},
	}
}
