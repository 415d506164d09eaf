// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/export"
	"github.com/jeranaias/shuaib-registry/internal/form"
	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/util"
)

// =============================================================================
// ADD
// =============================================================================

type addOptions struct {
	values  map[string]*string
	noShare bool
}

var addFlags = []struct {
	flag, field string
}{
	{"name", student.FieldFullName},
	{"village", student.FieldVillage},
	{"university", student.FieldUniversity},
	{"college", student.FieldCollege},
	{"major", student.FieldMajor},
	{"level", student.FieldAcademicLevel},
	{"location", student.FieldStudyLocation},
}

func newAddCommand(e *env) *cobra.Command {
	opts := &addOptions{values: make(map[string]*string, len(addFlags))}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student",
		Long: `Register a student through the same form the UI uses.

Village and study location default to the first allowed value and accept
common spellings. After saving, the WhatsApp link is opened unless
--no-share is given.`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			return runAdd(cmd, e, opts)
		}),
	}

	for _, f := range addFlags {
		opts.values[f.field] = cmd.Flags().String(f.flag, "", student.Label(f.field))
	}
	cmd.Flags().BoolVar(&opts.noShare, "no-share", false, "save without opening WhatsApp")
	return cmd
}

func runAdd(cmd *cobra.Command, e *env, opts *addOptions) error {
	store, err := e.records(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opener := e.deps.Opener
	if opts.noShare {
		opener = nil
	}
	f := form.New(store, opener,
		form.WithRecipient(e.cfg.Share.Recipient),
		form.WithLogger(e.logger))

	for _, af := range addFlags {
		value := strings.TrimSpace(*opts.values[af.field])
		if value == "" && student.IsEnumerated(af.field) {
			continue
		}
		value = normalizeFlag(af.field, value)
		if err := f.SetField(af.field, value); err != nil {
			return fmt.Errorf("--%s %q: allowed values are %s",
				af.flag, value, strings.Join(student.Allowed(af.field), "، "))
		}
	}

	res, err := f.Submit()
	var verrs student.ValidationErrors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		for _, field := range verrs.Fields() {
			missing = append(missing, "--"+flagFor(field))
		}
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err != nil {
		return err
	}

	data := AddData{Record: res.Record, Link: res.Link, Opened: opener != nil && res.OpenErr == nil}
	return emit(cmd, e, data, func(w io.Writer) {
		fmt.Fprintln(w, RenderConditional(SuccessStyle, form.SuccessText))
		printRecord(w, res.Record)
		if !data.Opened {
			if res.OpenErr != nil {
				fmt.Fprintln(w, RenderConditional(WarningStyle, "could not open WhatsApp: "+res.OpenErr.Error()))
			}
			fmt.Fprintln(w, RenderConditional(DimStyle, res.Link))
		}
	})
}

func normalizeFlag(field, value string) string {
	switch field {
	case student.FieldVillage:
		if v, ok := student.NormalizeVillage(value); ok {
			return v
		}
	case student.FieldStudyLocation:
		if v, ok := student.NormalizeStudyLocation(value); ok {
			return v
		}
	}
	return value
}

func flagFor(field string) string {
	for _, f := range addFlags {
		if f.field == field {
			return f.flag
		}
	}
	return field
}

func printRecord(w io.Writer, r student.Record) {
	fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, "id:"), r.ID)
	d := r.Draft()
	for _, field := range student.Fields {
		fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, student.Label(field)+":"), d.Get(field))
	}
}

// =============================================================================
// LIST
// =============================================================================

func newListCommand(e *env) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered students, newest first",
		Args:    cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			store, err := e.records(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			all := store.Records()
			visible := student.Filter(all, search)
			data := ListData{Total: len(all), Search: search, Records: visible}
			return emit(cmd, e, data, func(w io.Writer) {
				renderList(w, all, visible, GetTerminalWidth())
			})
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name, village or major")
	return cmd
}

// listColumns are the table columns and their minimum widths.
var listColumns = []struct {
	title string
	width int
	get   func(student.Record) string
}{
	{"#", 3, nil},
	{"الاسم", 18, func(r student.Record) string { return r.FullName }},
	{"القرية", 10, func(r student.Record) string { return r.Village }},
	{"الجامعة / الكلية", 20, func(r student.Record) string { return r.University + " / " + r.College }},
	{"التخصص", 12, func(r student.Record) string { return r.Major }},
	{"المستوى", 8, func(r student.Record) string { return r.AcademicLevel }},
	{"المكان", 8, func(r student.Record) string { return r.StudyLocation }},
	{"id", 8, func(r student.Record) string { return r.ID }},
}

func renderList(w io.Writer, all, visible []student.Record, width int) {
	fmt.Fprintln(w, RenderConditional(TitleStyle, fmt.Sprintf("%s (%s)",
		dashboard.CountLabel, util.ArabicDigits(fmt.Sprint(len(all))))))

	if len(all) == 0 {
		fmt.Fprintln(w, dashboard.EmptyTitle)
		fmt.Fprintln(w, RenderConditional(DimStyle, dashboard.EmptyHint))
		return
	}
	if len(visible) == 0 {
		fmt.Fprintln(w, RenderConditional(DimStyle, "لا توجد نتائج مطابقة"))
		return
	}

	widths := columnWidths(width)
	header := make([]string, len(listColumns))
	for i, c := range listColumns {
		header[i] = util.PadWidth(c.title, widths[i])
	}
	fmt.Fprintln(w, RenderConditional(HeaderStyle, strings.Join(header, " ")))
	fmt.Fprintln(w, RenderSeparator(sum(widths)+len(widths)-1))

	for n, r := range visible {
		cells := make([]string, len(listColumns))
		for i, c := range listColumns {
			value := fmt.Sprint(n + 1)
			if c.get != nil {
				value = c.get(r)
			}
			cells[i] = util.PadWidth(util.TruncateWidth(value, widths[i]), widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

// columnWidths gives spare terminal width to the name and university columns.
func columnWidths(total int) []int {
	widths := make([]int, len(listColumns))
	for i, c := range listColumns {
		widths[i] = c.width
	}
	spare := total - sum(widths) - (len(widths) - 1)
	if spare > 0 {
		widths[1] += spare / 2
		widths[3] += spare - spare/2
	}
	return widths
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// =============================================================================
// DELETE / CLEAR
// =============================================================================

func newDeleteCommand(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete one record by id",
		Args:    cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			id := args[0]
			dash, err := e.dashboard(cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			if _, ok := e.store.Get(id); !ok {
				return fmt.Errorf("no record with id %q", id)
			}
			confirm, err := e.prompter(cmd).RequireConfirmation(yes, e.opts.JSON)
			if err != nil {
				return err
			}
			deleted, err := dash.Delete(id, confirm)
			if err != nil {
				return err
			}
			return emit(cmd, e, DeleteData{ID: id, Deleted: deleted}, func(w io.Writer) {
				if !deleted {
					fmt.Fprintln(w, RenderConditional(DimStyle, CancelledText))
					return
				}
				fmt.Fprintln(w, RenderConditional(SuccessStyle, "تم حذف السجل "+id))
			})
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newClearCommand(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			dash, err := e.dashboard(cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			count := dash.Count()
			confirm, err := e.prompter(cmd).RequireConfirmation(yes, e.opts.JSON)
			if err != nil {
				return err
			}
			cleared, err := dash.ClearAll(confirm)
			if err != nil {
				return err
			}
			if !cleared {
				count = 0
			}
			return emit(cmd, e, ClearData{Cleared: count}, func(w io.Writer) {
				if !cleared {
					fmt.Fprintln(w, RenderConditional(DimStyle, CancelledText))
					return
				}
				fmt.Fprintln(w, RenderConditional(SuccessStyle,
					"تم مسح السجل ("+util.ArabicDigits(fmt.Sprint(count))+")"))
			})
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking")
	return cmd
}

func (e *env) prompter(cmd *cobra.Command) Prompter {
	return Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), IsTerminal: e.deps.IsTerminal}
}

// =============================================================================
// IMPORT
// =============================================================================

func newImportCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import records from a JSON array or a JSON/YAML export",
		Long: `Import records from a JSON array in the browser storage layout or from
a file written by "export json" or "export yaml".

Records whose id is already present are skipped. Incomplete records are
rejected. Imported records keep their ids.`,
		Args: cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			store, err := e.records(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			records, err := export.ReadRecords(args[0])
			if err != nil {
				return err
			}
			res, err := store.Import(records)
			if err != nil {
				return err
			}
			e.logger.Info("records imported",
				zap.String("file", args[0]),
				zap.Int("added", res.Added),
				zap.Int("duplicate", res.Duplicate),
				zap.Int("invalid", res.Invalid))

			data := ImportData{File: args[0], Added: res.Added, Duplicate: res.Duplicate, Invalid: res.Invalid}
			return emit(cmd, e, data, func(w io.Writer) {
				fmt.Fprintln(w, RenderConditional(SuccessStyle, fmt.Sprintf("imported %d record(s)", res.Added)))
				if res.Duplicate > 0 {
					fmt.Fprintln(w, RenderConditional(DimStyle, fmt.Sprintf("skipped %d already present", res.Duplicate)))
				}
				if res.Invalid > 0 {
					fmt.Fprintln(w, RenderConditional(WarningStyle, fmt.Sprintf("rejected %d incomplete", res.Invalid)))
				}
			})
		}),
	}
}
