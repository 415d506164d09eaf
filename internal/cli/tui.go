// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/form"
	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/storage"
	"github.com/jeranaias/shuaib-registry/internal/ui/app"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
)

// runTUI starts the three-tab terminal UI on the configured store.
func runTUI(cmd *cobra.Command, e *env, _ []string) error {
	if e.opts.JSON {
		return errors.New("the interactive UI has no JSON mode; use a subcommand")
	}

	errOut := cmd.ErrOrStderr()
	store, err := e.records(errOut)
	if err != nil {
		return err
	}
	svc, err := e.service(cmd.Context(), errOut)
	if err != nil {
		return err
	}
	exportOpts, err := e.exportOptions(errOut, "")
	if err != nil {
		return err
	}
	cfg, logger := e.cfg, e.logger

	model := app.New(app.Options{
		Store: store,
		Form: form.New(store, e.deps.Opener,
			form.WithRecipient(cfg.Share.Recipient),
			form.WithLogger(logger)),
		Assistant: assistant.New(svc, store,
			assistant.WithRateLimit(cfg.AI.RequestsPerMinute),
			assistant.WithLogger(logger)),
		Theme:  styles.NewTheme(cfg.UI.Theme),
		Logger: logger,
		DashboardOptions: []dashboard.Option{
			dashboard.WithOpener(e.deps.Opener),
			dashboard.WithRecipient(cfg.Share.Recipient),
			dashboard.WithExportOptions(exportOpts),
			dashboard.WithLogger(logger),
		},
		Context: cmd.Context(),
	})
	defer model.Close()

	if !strings.EqualFold(cfg.Storage.Backend, kv.BackendMemory) {
		w, err := storage.Watch(store, cfg.DataDir(), storage.WithWatchLogger(logger))
		if err != nil {
			logger.Warn("live reload disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	progOpts := []tea.ProgramOption{
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if cfg.UI.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	logger.Info("tui started", zap.Int("records", store.Len()))
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("tui stopped")
	return nil
}
