package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/config"
	"github.com/torosent/legalpub/internal/logging"
	"github.com/torosent/legalpub/internal/shell"
	"github.com/torosent/legalpub/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// errReported marks failures whose details were already printed to stdout.
var errReported = errors.New("failed")

// app carries what every subcommand needs once the root flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// newRunner returns the runner for external commands. Dry runs echo each
	// command to w. Tests swap it out.
	newRunner func(dryRun bool, w io.Writer) shell.Runner

	logger   *zap.Logger
	provider *tracing.Provider
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	a.newRunner = func(dryRun bool, w io.Writer) shell.Runner {
		if dryRun {
			return shell.NewDryRunner(w)
		}
		return shell.NewExecRunner()
	}
	return a
}

func (a *app) tracer() trace.Tracer {
	return a.provider.Tracer()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return execute(ctx, newApp(os.Stdout, os.Stderr), args)
}

func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)

	if a.provider != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if serr := a.provider.Shutdown(shutdownCtx); serr != nil {
			a.logger.Warn("tracing shutdown failed", zap.Error(serr))
		}
		cancel()
	}
	_ = a.logger.Sync()
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "legalpub",
		Short: "Prepare legal documents and publish them to a content-addressed store",
		Long: `legalpub converts contract templates to HTML, fills in their placeholders
from a tag dictionary and publishes the edited documents to a remote
content-addressed store.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			global, err := config.NewLoader().LoadGlobal(cmd.Flags())
			if err != nil {
				return err
			}
			if err := global.Validate(); err != nil {
				return err
			}
			a.logger = logging.NewWithWriter(global.Log, a.stderr)

			provider, err := tracing.Init(cmd.Context(), global.Tracing)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			a.provider = provider
			if provider.Enabled() {
				a.logger.Debug("tracing enabled", zap.String("protocol", global.Tracing.Protocol))
			}
			return nil
		},
	}
	config.RegisterGlobalFlags(root.PersistentFlags())

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newReplaceTagsCmd(a))
	root.AddCommand(newPublishCmd(a))
	root.AddCommand(newTagsCmd(a))
	return root
}
