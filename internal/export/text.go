// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// =============================================================================
// WHATSAPP SUMMARY
// =============================================================================

const (
	whatsAppTitle = "📋 كشف الطلاب المسجلين - مكتب مندوب العوابل"
	separator     = "-----------------------------------"
)

// WhatsAppMessage renders the numbered summary block shared over WhatsApp:
// index, name, village, major and university per record, separators
// between entries and the total count at the end.
func WhatsAppMessage(records []student.Record) string {
	var sb strings.Builder

	sb.WriteString(whatsAppTitle + "\n")
	sb.WriteString(separator + "\n")

	for i, r := range records {
		fmt.Fprintf(&sb, "%d. 👤 %s\n", i+1, r.FullName)
		fmt.Fprintf(&sb, "   🏠 القرية: %s\n", r.Village)
		fmt.Fprintf(&sb, "   🎓 التخصص: %s\n", r.Major)
		fmt.Fprintf(&sb, "   🏫 %s\n", r.University)
		sb.WriteString(separator + "\n")
	}

	fmt.Fprintf(&sb, "\n📊 إجمالي الطلاب: %d", len(records))
	return sb.String()
}

// WhatsAppExporter writes the WhatsApp summary block as a text file.
type WhatsAppExporter struct {
	options *Options
}

// NewWhatsAppExporter creates a new WhatsApp summary exporter.
func NewWhatsAppExporter(opts *Options) *WhatsAppExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &WhatsAppExporter{options: opts}
}

// Export implements Exporter.
func (e *WhatsAppExporter) Export(records []student.Record) ([]byte, error) {
	return []byte(WhatsAppMessage(records)), nil
}

// FileExtension implements Exporter.
func (e *WhatsAppExporter) FileExtension() string { return ".txt" }

// MimeType implements Exporter.
func (e *WhatsAppExporter) MimeType() string { return "text/plain; charset=utf-8" }

// =============================================================================
// PLAIN TEXT LISTING
// =============================================================================

const textTitle = "كشف طلاب العوابل - اتحاد الشعيب"

// TextListing renders one line per record:
// "<n>. <name> - <village> - <major> - <university>".
func TextListing(records []student.Record) string {
	var sb strings.Builder
	sb.WriteString(textTitle + "\n\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. %s - %s - %s - %s\n", i+1, r.FullName, r.Village, r.Major, r.University)
	}
	return sb.String()
}

// TextExporter writes the plain-text listing.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain-text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export implements Exporter.
func (e *TextExporter) Export(records []student.Record) ([]byte, error) {
	return []byte(TextListing(records)), nil
}

// FileExtension implements Exporter.
func (e *TextExporter) FileExtension() string { return ".txt" }

// MimeType implements Exporter.
func (e *TextExporter) MimeType() string { return "text/plain; charset=utf-8" }
