package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/internal/observability"
	"github.com/philipparndt/stl2nec/version"
)

var (
	logLevel     string
	logFormat    string
	traceEnabled bool

	logger          = logging.Noop()
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "stl2nec",
	Short: "Convert STL models into NEC and EZ antenna simulation decks",
	Long: `stl2nec converts a triangulated STL (or OpenSCAD) model of a vehicle, mast
or structure into NEC-2 and EZNEC input decks. A thin wire-like part of the
mesh is detected as the antenna and excited; every other triangle becomes a
structure wire.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logging.ConfigFromEnv(logging.Config{
			Level:  logLevel,
			Format: logFormat,
			Output: cmd.ErrOrStderr(),
		}))

		shutdown, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
			Enabled:     traceEnabled,
			ServiceName: "stl2nec",
			Output:      cmd.ErrOrStderr(),
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.ShutdownWithTimeout(context.WithoutCancel(cmd.Context()), shutdownTracing, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default from LOG_LEVEL, else info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (default from LOG_FORMAT, else text)")
	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "Print OpenTelemetry spans of each pipeline stage to stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
