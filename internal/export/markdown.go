// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders the registry as a Markdown table with the same
// columns as the printed sheet.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(records []student.Record) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", UnionName)
	fmt.Fprintf(&sb, "## %s\n\n", SheetTitle)
	fmt.Fprintf(&sb, "بإشراف المندوب: %s\n\n", escapeMarkdownCell(e.options.delegate()))

	sb.WriteString("| " + strings.Join(printColumns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(printColumns)) + "\n")
	for i, r := range records {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			r.FullName,
			r.Village,
			r.University + " - " + r.College,
			r.Major,
			r.AcademicLevel,
			r.StudyLocation,
		}
		for j := range cells {
			cells[j] = escapeMarkdownCell(cells[j])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	fmt.Fprintf(&sb, "\n**إجمالي الطلاب: %d**\n", len(records))
	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType implements Exporter.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// escapeMarkdownCell keeps cell text on one line and out of the table syntax.
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
