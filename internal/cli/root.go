// Package cli implements the partsbin command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/internal/metrics"
	"github.com/mesh-intelligence/partsbin/internal/paths"
	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// sysErr marks err as an environment failure (exit 2).
func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps err to a process exit code. Store and sink failures are
// system errors; everything else the user can fix.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if errors.Is(err, types.ErrSinkFailure) || errors.Is(err, types.ErrStoreDetached) {
		return exitSysError
	}
	return exitUserError
}

// rootFlags holds global flag values.
type rootFlags struct {
	configDir   string
	dataDir     string
	jsonMode    bool
	verbose     bool
	metricsFile string
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags  rootFlags
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	configDir string
	cfg       Config
	log       *slog.Logger
	registry  *prometheus.Registry
	recorder  *metrics.Recorder
}

// Run executes the CLI with args and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, now: time.Now}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if n, ok := types.InUseCount(err); ok {
			fmt.Fprintf(stderr, "hint: reassign or delete the %d referencing record(s) first\n", n)
		}
	}
	return exitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "partsbin",
		Short:         "Drone parts inventory manager",
		Long:          "Partsbin tracks drone parts, categories, storage locations, builds,\ngallery items, links and todos in a local data store.",
		Version:       partsbin.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newPartCmd(a),
		newCategoryCmd(a),
		newSubcategoryCmd(a),
		newLocationCmd(a),
		newBuildCmd(a),
		newGalleryCmd(a),
		newTagCmd(a),
		newLinkCmd(a),
		newTodoCmd(a),
		newSettingsCmd(a),
		newBackupCmd(a),
		newSummaryCmd(a),
	)
	return root
}

// setup resolves the config directory, loads config.yaml and builds the
// logger and metrics registry.
func (a *app) setup() error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return sysErr(err)
	}
	a.configDir = dir
	a.cfg = cfg
	a.log = newLogger(a.stderr, cfg.LogLevel, a.flags.verbose)
	a.registry = prometheus.NewRegistry()
	a.recorder = metrics.NewRecorder(a.registry)
	a.log.Debug("config loaded", "config_dir", dir, "backend", cfg.Backend)
	return nil
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// dataDir applies flag > config.yaml > env > CWD default.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
	if err != nil {
		return "", sysErr(fmt.Errorf("resolve data dir: %w", err))
	}
	return dir, nil
}

// withWorkshop opens the workshop, runs fn, detaches the store and writes
// the metrics file when one is configured.
func (a *app) withWorkshop(fn func(ws *partsbin.Workshop) error) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}
	opts := []partsbin.Option{
		partsbin.WithLogger(a.log),
		partsbin.WithRecorder(a.recorder),
	}
	if !a.cfg.Seed {
		opts = append(opts, partsbin.WithoutSeed())
	}
	ws, closeStore, err := partsbin.Open(types.Config{Backend: a.cfg.Backend, DataDir: dataDir}, opts...)
	if err != nil {
		return sysErr(fmt.Errorf("open workshop: %w", err))
	}

	runErr := fn(ws)
	if err := closeStore(); err != nil && runErr == nil {
		runErr = sysErr(fmt.Errorf("detach store: %w", err))
	}
	if err := a.writeMetrics(); err != nil {
		a.log.Warn("writing metrics", "error", err)
	}
	return runErr
}

func (a *app) writeMetrics() error {
	path := a.flags.metricsFile
	if path == "" {
		path = a.cfg.MetricsFile
	}
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, a.registry)
}
