// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/config"
	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/export"
	"github.com/jeranaias/shuaib-registry/internal/gemini"
	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/logging"
	"github.com/jeranaias/shuaib-registry/internal/share"
	"github.com/jeranaias/shuaib-registry/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Deps are the side effects the commands reach outside the process for.
// Zero fields get the real implementations.
type Deps struct {
	// Opener launches WhatsApp links and print views.
	Opener share.Opener

	// NewService connects to Gemini.
	NewService func(ctx context.Context, cfg gemini.Config) (gemini.Service, error)

	// IsTerminal reports whether stdin can answer prompts.
	IsTerminal func() bool
}

func (d Deps) withDefaults() Deps {
	if d.Opener == nil {
		d.Opener = share.DefaultOpener()
	}
	if d.NewService == nil {
		d.NewService = func(ctx context.Context, cfg gemini.Config) (gemini.Service, error) {
			c, err := gemini.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	if d.IsTerminal == nil {
		d.IsTerminal = IsTTY
	}
	return d
}

// RootOptions holds the persistent flags.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Verbose    bool
	JSON       bool
}

// env is the lazily built state shared by one command run.
type env struct {
	deps Deps
	opts *RootOptions

	cfg     *config.Config
	logger  *zap.Logger
	backend kv.Storage
	store   *storage.Store
}

func (e *env) config(w io.Writer) (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if e.opts.ConfigPath != "" {
		cfg, err = config.LoadFromPath(e.opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if cfg == nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err != nil {
		fmt.Fprintln(w, RenderConditional(WarningStyle, "warning: "+err.Error()+"; using defaults"))
	}

	if e.opts.DataDir != "" {
		cfg.Storage.DataDir = e.opts.DataDir
	}
	if e.opts.Backend != "" {
		cfg.Storage.Backend = e.opts.Backend
	}
	e.cfg = cfg
	return cfg, nil
}

func (e *env) log(w io.Writer) (*zap.Logger, error) {
	if e.logger != nil {
		return e.logger, nil
	}
	cfg, err := e.config(w)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		File:    cfg.LogFile(),
		Level:   cfg.Log.Level,
		Verbose: e.opts.Verbose,
	})
	if err != nil {
		// Logging is ambient; a bad log path must not block the registry.
		fmt.Fprintln(w, RenderConditional(WarningStyle, "warning: "+err.Error()))
		logger = zap.NewNop()
	}
	e.logger = logger
	return logger, nil
}

func (e *env) records(w io.Writer) (*storage.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	cfg, err := e.config(w)
	if err != nil {
		return nil, err
	}
	logger, err := e.log(w)
	if err != nil {
		return nil, err
	}

	backend, err := kv.Open(kv.Options{Backend: cfg.Storage.Backend, Dir: cfg.DataDir()})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	e.backend = backend
	e.store = storage.Open(backend, storage.WithLogger(logger))
	logger.Debug("store opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("dir", cfg.DataDir()),
		zap.Int("records", e.store.Len()))
	return e.store, nil
}

// service connects to Gemini, degrading to an unavailable service so the
// assistant can still answer with its failure text.
func (e *env) service(ctx context.Context, w io.Writer) (gemini.Service, error) {
	cfg, err := e.config(w)
	if err != nil {
		return nil, err
	}
	logger, err := e.log(w)
	if err != nil {
		return nil, err
	}
	svc, err := e.deps.NewService(ctx, gemini.Config{
		APIKey: cfg.AI.APIKey,
		Model:  cfg.AI.Model,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("gemini unavailable", zap.Error(err))
		return gemini.Unavailable{Err: err}, nil
	}
	return svc, nil
}

func (e *env) exportOptions(w io.Writer, outDir string) (*export.Options, error) {
	cfg, err := e.config(w)
	if err != nil {
		return nil, err
	}
	opts := export.DefaultOptions()
	opts.OutputDir = cfg.ExportDir()
	if outDir != "" {
		opts.OutputDir = outDir
	}
	opts.Delegate = cfg.Export.Delegate
	return opts, nil
}

func (e *env) dashboard(w io.Writer, outDir string) (*dashboard.Dashboard, error) {
	store, err := e.records(w)
	if err != nil {
		return nil, err
	}
	opts, err := e.exportOptions(w, outDir)
	if err != nil {
		return nil, err
	}
	return dashboard.New(store,
		dashboard.WithOpener(e.deps.Opener),
		dashboard.WithRecipient(e.cfg.Share.Recipient),
		dashboard.WithExportOptions(opts),
		dashboard.WithLogger(e.logger),
	), nil
}

func (e *env) close() {
	if e.backend != nil {
		if err := e.backend.Close(); err != nil && e.logger != nil {
			e.logger.Warn("close storage", zap.Error(err))
		}
		e.backend = nil
		e.store = nil
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

// run wraps a command body so the store and logger are released on every
// exit path.
func (e *env) run(fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		err := fn(cmd, e, args)
		if err != nil && e.opts.JSON {
			if perr := NewJSONErrorResponse(cmd.Name(), err).Print(cmd.OutOrStdout()); perr == nil {
				return reportedError{err}
			}
		}
		return err
	}
}

// NewRootCommand builds the registry command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	opts := &RootOptions{}
	e := &env{deps: deps.withDefaults(), opts: opts}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Shuaib student union registry",
		Long: `نظام اتحاد طلاب الشعيب - سجل الطلاب

Without a subcommand the interactive terminal UI starts with the
registration form, the records dashboard and the AI assistant.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: e.run(runTUI),
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.shuaib/config.toml)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "directory holding the registry data")
	flags.StringVar(&opts.Backend, "backend", "", "storage backend: file, sqlite or memory")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&opts.JSON, "json", false, "machine-readable JSON output")

	cmd.AddCommand(
		newAddCommand(e),
		newListCommand(e),
		newDeleteCommand(e),
		newClearCommand(e),
		newExportCommand(e),
		newImportCommand(e),
		newAskCommand(e),
		newChatCommand(e),
		newConfigCommand(e),
	)
	return cmd
}

// Execute runs the command line with the real dependencies. Errors are
// printed before being returned.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(Deps{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(stderr, RenderConditional(ErrorStyle, "خطأ: ")+err.Error())
	}
	return err
}

// errReported marks an error already written as a JSON envelope.
var errReported = errors.New("reported")

type reportedError struct{ err error }

func (r reportedError) Error() string   { return r.err.Error() }
func (r reportedError) Unwrap() []error { return []error{r.err, errReported} }

// emit writes data as a JSON envelope in JSON mode, or calls human otherwise.
func emit(cmd *cobra.Command, e *env, data interface{}, human func(w io.Writer)) error {
	if e.opts.JSON {
		return NewJSONResponse(cmd.Name(), data).Print(cmd.OutOrStdout())
	}
	human(cmd.OutOrStdout())
	return nil
}
