package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/benz9527/xchain/script"
	"github.com/benz9527/xchain/xlog"
)

// Overridden by -ldflags "-X main.version=...".
var version = "dev"

type cliConfig struct {
	scriptPath      string
	logLevel        string
	logFormat       string
	continueOnError bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "xchain",
		Short:        "Replay chain scripts",
		SilenceUsage: true,
	}
	root.SetOut(out)

	cfg := &cliConfig{}
	runCmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a chain script and print every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.scriptPath = args[0]
			return runScript(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	runCmd.Flags().StringVar(&cfg.logLevel, "log-level", xlog.LogLevelWarn.String(), "DEBUG, INFO, WARN or ERROR")
	runCmd.Flags().StringVar(&cfg.logFormat, "log-format", "json", "json or text")
	runCmd.Flags().BoolVar(&cfg.continueOnError, "continue-on-error", false, "keep running after a failed step")

	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "List the supported step ops",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			names := lo.Map(script.Ops(), func(op script.Op, _ int) string {
				return string(op)
			})
			sort.Strings(names)
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "xchain "+version)
		},
	}

	root.AddCommand(runCmd, opsCmd, versionCmd)
	return root
}

func newLogger(cfg *cliConfig) (xlog.XLogger, error) {
	enc, err := xlog.ParseLogEncoder(cfg.logFormat)
	if err != nil {
		return nil, err
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerLevel(xlog.LogLevel(cfg.logLevel)),
		xlog.WithXLoggerContextFieldExtract(script.ContextKeyScript),
	), nil
}

func newRunner(cfg *cliConfig, logger xlog.XLogger) *script.Runner {
	return script.NewRunner(
		script.WithRunnerLogger(logger.Named("runner")),
		script.WithContinueOnError(cfg.continueOnError),
	)
}

func newScript(cfg *cliConfig) (*script.Script, error) {
	return script.LoadFile(cfg.scriptPath)
}

func runScript(ctx context.Context, out io.Writer, cfg *cliConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(newLogger, newRunner, newScript),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(func(lc fx.Lifecycle, runner *script.Runner, s *script.Script, logger xlog.XLogger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					report, err := runner.Run(ctx, s)
					printReport(out, report)
					return err
				},
				OnStop: func(context.Context) error {
					// Syncing a terminal stderr may fail, nothing to do with it.
					_ = logger.Sync()
					return nil
				},
			})
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(context.WithoutCancel(ctx))
}

func printReport(out io.Writer, report *script.Report) {
	if report == nil {
		return
	}
	for _, step := range report.Steps {
		result := step.Result
		if step.Err != nil {
			result = "error: " + step.Err.Error()
		}
		_, _ = fmt.Fprintf(out, "%02d %-17s %-8s => %s\n", step.Index, step.Op, result, step.Chain)
	}
	_, _ = fmt.Fprintf(out, "final [%d] %s\n", report.Len, report.Final)
}
