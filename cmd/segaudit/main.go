// Command segaudit validates, canonicalizes and publishes segmentation
// evaluation artifacts.
//
// Exit codes:
//
//	0 = success
//	1 = contract violation
//	2 = runtime or usage error
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/telemetry"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

const (
	exitOK        = 0
	exitViolation = 1
	exitError     = 2
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// exitErr carries an exit code for a failure that has already been
// reported to the user.
type exitErr struct{ code int }

func (e *exitErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app holds the state shared by one invocation's commands.
type app struct {
	stdout, stderr io.Writer
	configPath     string
	cfg            *config.Config
	logger         *slog.Logger
	tracing        *telemetry.Provider
}

// Run is the entrypoint for testing. args includes the program name.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}

	err := root.ExecuteContext(context.Background())
	a.shutdown()
	if err == nil {
		return exitOK
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	if v, ok := contract.AsViolation(err); ok {
		_, _ = fmt.Fprintf(stderr, "Error: %s (%s)\n", v.Message, v.Code)
		return exitViolation
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "segaudit",
		Short:         "SegAudit command line interface.",
		Long:          "SegAudit validates segmentation evaluation artifacts against their\ndata contracts and publishes canonical copies for CI.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file (default "+config.DefaultFile+" if present)")

	root.AddCommand(
		a.validateCmd(),
		a.canonCmd(),
		a.publishCmd(),
		a.showCmd(),
		a.listCmd(),
		a.schemaCmd(),
	)
	for _, c := range scaffoldedCmds(a.stderr) {
		root.AddCommand(c)
	}
	return root
}

// setup loads configuration and installs the process logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(a.logger)

	tracing, err := telemetry.Setup(context.Background(), cfg.Trace, version, a.stderr)
	if err != nil {
		return err
	}
	a.tracing = tracing
	return nil
}

// shutdown flushes spans recorded during the run.
func (a *app) shutdown() {
	if a.tracing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil && a.logger != nil {
		a.logger.Warn("flushing traces", "error", err)
	}
}

// reportViolation prints a contract failure for path.
func (a *app) reportViolation(path string, v *contract.Violation) {
	_, _ = fmt.Fprintf(a.stderr, "%s: %s (%s)\n", path, v.Message, v.Code)
}
