// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/export"
)

type exportOptions struct {
	outDir string
	stdout bool
}

func newExportCommand(e *env) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export FORMAT",
		Short: "Export the registry (" + strings.Join(export.Formats(), ", ") + ")",
		Long: `Export the whole registry.

  whatsapp  open the WhatsApp summary addressed to the delegate
  text      write the plain-text listing
  print     write the printable HTML view and open it
  json      write a JSON array that import reads back
  yaml      write a YAML list that import reads back
  markdown  write a Markdown table

Files are named after today's date and written to the export directory
(export.dir in the config) unless --out is given. --stdout prints the
rendered export instead of writing or opening anything; on a color
terminal JSON, YAML, Markdown and HTML are syntax highlighted.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: export.Formats(),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			return runExport(cmd, e, strings.ToLower(args[0]), opts)
		}),
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print the export instead of saving it")
	return cmd
}

func runExport(cmd *cobra.Command, e *env, format string, opts *exportOptions) error {
	dash, err := e.dashboard(cmd.ErrOrStderr(), opts.outDir)
	if err != nil {
		return err
	}

	if opts.stdout {
		exportOpts, err := e.exportOptions(cmd.ErrOrStderr(), opts.outDir)
		if err != nil {
			return err
		}
		exporter, err := export.ForFormat(format, exportOpts)
		if err != nil {
			return err
		}
		content, err := exporter.Export(e.store.Records())
		if err != nil {
			return err
		}
		if ColorsEnabled() {
			_, err = io.WriteString(cmd.OutOrStdout(), highlight(string(content), exporter.FileExtension(), e.cfg.UI.Theme))
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	data := ExportData{Format: format}
	switch format {
	case "whatsapp":
		data.Link, err = dash.ShareWhatsApp()
	case "text":
		data.Path, err = dash.DownloadText()
	case "print":
		data.Path, err = dash.Print()
	default:
		data.Path, err = dash.Export(format)
	}
	if errors.Is(err, dashboard.ErrNoRecords) {
		return errors.New(dashboard.NoDataNotice)
	}
	if err != nil && data.Path == "" && data.Link == "" {
		return err
	}

	return emit(cmd, e, data, func(w io.Writer) {
		if err != nil {
			// Saved, but the browser could not be launched.
			fmt.Fprintln(w, RenderConditional(WarningStyle, err.Error()))
		}
		if data.Path != "" {
			fmt.Fprintln(w, RenderConditional(SuccessStyle, "saved "+data.Path))
		}
		if data.Link != "" {
			fmt.Fprintln(w, RenderConditional(DimStyle, data.Link))
		}
	})
}
