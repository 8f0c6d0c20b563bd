// Package main is the CLI entry point for hellogate.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/hello_gate/internal/app"
	"github.com/eliteGoblin/focusd/hello_gate/internal/infra"
	"github.com/eliteGoblin/focusd/hello_gate/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

// exitCode is the message loop's result, reported once cobra returns.
var exitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "hellogate",
	Short: "Gate a desktop session behind Windows Hello",
	Long: `hellogate opens a small window and asks Windows Hello to verify the
current user. The process exits with status 1 when verification is refused
or unavailable, and with status 0 when the user closes the window.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	RunE:          runGate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var jsonOutput bool

func init() {
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(versionCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if info, err := infra.DescribeHost(ctx); err != nil {
		logger.Warn("host diagnostics unavailable", zap.Error(err))
	} else {
		logger.Info("starting hellogate",
			append(infra.HostFields(info), zap.String("version", Version))...)
	}

	host := infra.NewWindowHost(logger)
	verifier := infra.NewVerifier(infra.DefaultWinRTConfig(), logger)

	pipeline := usecase.NewPipeline(
		usecase.NewRequester(verifier, logger),
		usecase.NewNotifier(host, host, logger),
		logger,
	)
	controller := app.NewController(app.DefaultConfig(), host, pipeline, logger)

	code, err := controller.Run(ctx)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}

	exitCode = code
	return nil
}

func createLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{filepath.Join(os.TempDir(), "hellogate.log")}
	config.ErrorOutputPaths = []string{filepath.Join(os.TempDir(), "hellogate.error.log")}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("hellogate %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
