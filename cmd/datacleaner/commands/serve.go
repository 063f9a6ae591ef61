package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/David-Botos/data-cleaning/pkg/cleaner"
	"github.com/David-Botos/data-cleaning/pkg/metrics"
	"github.com/David-Botos/data-cleaning/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr         string
		summaryEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over isolated cleaning sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.NewCleaningMetrics(reg, a.logger)

			registry, err := cleaner.NewRegistry(a.logger, cleaner.WithMetrics(m))
			if err != nil {
				return err
			}
			fl, err := a.fileLoader()
			if err != nil {
				return err
			}
			srv, err := server.New(a.cfg, registry, fl, reg, a.logger)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx)
			})
			if summaryEvery > 0 {
				g.Go(func() error {
					logSummaries(gctx, m, summaryEvery)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides DATACLEANER_HTTP_ADDR)")
	cmd.Flags().DurationVar(&summaryEvery, "summary-interval", 5*time.Minute, "how often to log cleaning totals, 0 disables")
	return cmd
}

// logSummaries logs totals every interval and once more on shutdown
func logSummaries(ctx context.Context, m *metrics.CleaningMetrics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.LogSummary()
			return
		case <-ticker.C:
			m.LogSummary()
		}
	}
}
