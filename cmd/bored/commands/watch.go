package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dyluth/bored/internal/metrics"
	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/internal/watch"
	"github.com/dyluth/bored/pkg/client"
)

var (
	watchOutputFormat string
	watchMetricsAddr  string
	watchUntil        int64
)

var watchCmd = &cobra.Command{
	Use:   "watch [ADDRESS|NAME]",
	Short: "Follow updates to a bored",
	Long: `Print a line every time a bored is published, until interrupted.

Output Formats:
  default - Human-readable output with timestamps
  json    - Line-delimited JSON for programmatic processing

With --metrics-addr, Prometheus metrics about the updates seen are served on
http://<addr>/metrics while watching.

Examples:
  bored watch town
  bored watch bored://town.square --output=json > updates.jsonl
  bored watch town --metrics-addr :9090`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	watchCmd.Flags().Int64Var(&watchUntil, "until", -1, "Stop after seeing this version")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var outputFormat watch.OutputFormat
	switch watchOutputFormat {
	case "default":
		outputFormat = watch.OutputFormatDefault
	case "json":
		outputFormat = watch.OutputFormatJSON
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	// Phase 1: Metrics
	var m *metrics.Metrics
	var clientOpts []client.Option
	if watchMetricsAddr != "" {
		m = metrics.New(prometheus.NewRegistry())
		clientOpts = append(clientOpts, client.WithObserver(m))
	}

	// Phase 2: Connect and resolve
	env, err := setup(ctx, clientOpts...)
	if err != nil {
		return err
	}
	defer env.Close()

	addr, err := resolveAddress(env.config, args)
	if err != nil {
		return err
	}
	if _, _, err := env.client.Fetch(ctx, addr); err != nil {
		return fetchError(addr, err)
	}

	watchOpts := []watch.Option{watch.WithLogger(env.logger)}
	if watchUntil >= 0 {
		watchOpts = append(watchOpts, watch.WithUntil(uint64(watchUntil)))
	}

	if m != nil {
		watchOpts = append(watchOpts, watch.WithObserver(m))
		shutdown, err := serveMetrics(watchMetricsAddr, m, env.logger)
		if err != nil {
			return printer.Error("failed to serve metrics", err.Error(), []string{"Choose another --metrics-addr"})
		}
		defer shutdown()
	}

	// Phase 3: Stream updates
	if outputFormat == watch.OutputFormatDefault {
		printer.Step("Watching %s (Ctrl-C to stop)\n", addr)
	}
	return watch.Stream(ctx, env.client, addr, outputFormat, printer.Stdout(), watchOpts...)
}

// serveMetrics serves m on addr until the returned function is called
func serveMetrics(addr string, m *metrics.Metrics, log *zap.Logger) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", listener.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
