package main

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/internal/convert"
	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/internal/observability"
	"github.com/philipparndt/stl2nec/pkg/openscad"
	"github.com/philipparndt/stl2nec/pkg/watcher"
)

var (
	watchFlags       jobFlags
	watchDebounce    time.Duration
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Regenerate the decks whenever the model changes",
	Long: `Convert once, then watch the source (every file an OpenSCAD source uses, and
the job file) and convert again after each change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.register(watchCmd.Flags())
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before a change triggers a conversion")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewCollector(registry)
	if err != nil {
		return err
	}
	if watchMetricsAddr != "" {
		stop := serveMetrics(ctx, watchMetricsAddr, metrics)
		defer stop()
	}

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan string, 1)
	notify := func(path string) {
		select {
		case changes <- path:
		default:
		}
	}

	conv := convert.New(convert.WithLogger(logger), convert.WithMetrics(metrics))
	runOnce := func() {
		files, err := convertAndCollect(cmd, args, conv)
		if err != nil {
			logger.Error(ctx, "conversion failed", logging.Err(err))
		}
		if len(files) == 0 {
			return
		}
		if err := fw.Replace(files, notify); err != nil {
			logger.Error(ctx, "failed to watch files", logging.Err(err))
			return
		}
		logger.Info(ctx, "watching", logging.Any("files", files))
	}

	runOnce()
	if len(fw.Watched()) == 0 {
		return errors.New("nothing to watch")
	}
	fw.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "watch stopped")
			return nil
		case path := <-changes:
			logger.Info(ctx, "file changed", logging.String("path", path))
			runOnce()
		}
	}
}

// convertAndCollect runs one conversion and returns the files whose changes
// should trigger the next one. The list is returned even when the
// conversion fails, so fixing the source recovers.
func convertAndCollect(cmd *cobra.Command, args []string, conv *convert.Converter) ([]string, error) {
	var files []string
	if watchFlags.jobFile != "" {
		files = append(files, watchFlags.jobFile)
	}

	j, err := watchFlags.build(cmd, args)
	if err != nil {
		return files, err
	}
	if j.Source != "" {
		files = append(files, j.Source)
	}
	if openscad.IsSource(j.Source) {
		source, err := filepath.Abs(j.Source)
		if err != nil {
			return files, err
		}
		deps, err := openscad.NewRenderer(filepath.Dir(source)).ResolveDependencies(source)
		if err != nil {
			return files, err
		}
		files = deps
		if watchFlags.jobFile != "" {
			files = append(files, watchFlags.jobFile)
		}
	}

	settings, err := j.Resolve()
	if err != nil {
		return files, err
	}
	ctx, log := logging.WithRunLogger(cmd.Context(), logger)
	res, err := conv.Run(ctx, settings)
	if res != nil {
		printResult(cmd.OutOrStdout(), settings, res)
	}
	if err != nil {
		return files, err
	}
	log.Debug(ctx, "run finished", logging.Int("written", len(res.Written)))
	return files, nil
}

func serveMetrics(ctx context.Context, addr string, metrics *observability.Collector) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info(ctx, "serving metrics", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server failed", logging.Err(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
