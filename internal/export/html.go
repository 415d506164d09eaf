// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// =============================================================================
// HTML PRINT VIEW
// =============================================================================

// Sheet headings.
const (
	UnionName  = "اتحاد طلاب الشعيب"
	SheetTitle = "كشف بيانات طلاب وطالبات مدينة العوابل"
)

var printColumns = []string{"#", "الاسم الرباعي", "القرية", "الجامعة / الكلية", "التخصص", "المستوى", "الموقع"}

// HTMLExporter renders the printable registry sheet. The page is
// right-to-left and asks the browser to print as soon as it loads.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML print view exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export implements Exporter. Every record is listed regardless of any
// dashboard filter.
func (e *HTMLExporter) Export(records []student.Record) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"ar\" dir=\"rtl\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(SheetTitle))
	sb.WriteString("    <meta name=\"generator\" content=\"shuaib-registry\">\n")
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")

	sb.WriteString(e.renderHeader())
	sb.WriteString(e.renderTable(records))
	sb.WriteString(e.renderSignatures())

	sb.WriteString(e.getScript())
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType implements Exporter.
func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader() string {
	var sb strings.Builder
	sb.WriteString("    <header class=\"sheet-header\">\n")
	fmt.Fprintf(&sb, "        <h1>%s</h1>\n", html.EscapeString(UnionName))
	fmt.Fprintf(&sb, "        <h2>%s</h2>\n", html.EscapeString(SheetTitle))
	fmt.Fprintf(&sb, "        <p>بإشراف المندوب: %s</p>\n", html.EscapeString(e.options.delegate()))
	fmt.Fprintf(&sb, "        <p class=\"date\">%s</p>\n", html.EscapeString(DateStamp(e.options.now())))
	sb.WriteString("    </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderTable(records []student.Record) string {
	var sb strings.Builder
	sb.WriteString("    <table>\n")
	sb.WriteString("        <thead>\n            <tr>\n")
	for _, col := range printColumns {
		fmt.Fprintf(&sb, "                <th>%s</th>\n", html.EscapeString(col))
	}
	sb.WriteString("            </tr>\n        </thead>\n")

	sb.WriteString("        <tbody>\n")
	for i, r := range records {
		cells := []string{
			r.FullName,
			r.Village,
			r.University + " - " + r.College,
			r.Major,
			r.AcademicLevel,
			r.StudyLocation,
		}
		sb.WriteString("            <tr>\n")
		fmt.Fprintf(&sb, "                <td class=\"index\">%d</td>\n", i+1)
		for _, c := range cells {
			fmt.Fprintf(&sb, "                <td>%s</td>\n", html.EscapeString(c))
		}
		sb.WriteString("            </tr>\n")
	}
	sb.WriteString("        </tbody>\n")
	sb.WriteString("    </table>\n")
	return sb.String()
}

func (e *HTMLExporter) renderSignatures() string {
	var sb strings.Builder
	sb.WriteString("    <footer class=\"signatures\">\n")
	sb.WriteString("        <div class=\"signature\">\n")
	sb.WriteString("            <p class=\"caption\">توقيع المندوب</p>\n")
	fmt.Fprintf(&sb, "            <p>%s</p>\n", html.EscapeString(e.options.delegate()))
	sb.WriteString("        </div>\n")
	sb.WriteString("        <div class=\"signature\">\n")
	sb.WriteString("            <p class=\"caption\">ختم الاتحاد</p>\n")
	sb.WriteString("            <div class=\"stamp\"><span>ختم رسمي</span></div>\n")
	sb.WriteString("        </div>\n")
	sb.WriteString("    </footer>\n")
	return sb.String()
}

func (e *HTMLExporter) getCSS() string {
	return `    <style>
        body { font-family: "Noto Naskh Arabic", "Segoe UI", Tahoma, sans-serif; margin: 40px; color: #000; background: #fff; }
        .sheet-header { text-align: center; border-bottom: 4px double #000; padding-bottom: 16px; margin-bottom: 32px; }
        .sheet-header h1 { font-size: 28px; margin: 0 0 8px; }
        .sheet-header h2 { font-size: 20px; margin: 0; }
        .sheet-header p { font-size: 14px; margin: 8px 0 0; }
        table { width: 100%; border-collapse: collapse; }
        th { background: #f3f4f6; }
        th, td { border: 1px solid #000; padding: 8px; text-align: right; }
        td.index { text-align: center; }
        .signatures { display: flex; justify-content: space-between; margin-top: 64px; padding: 0 40px; }
        .signature { text-align: center; }
        .caption { font-weight: bold; text-decoration: underline; margin-bottom: 40px; }
        .stamp { width: 96px; height: 96px; border: 4px solid #000; border-radius: 50%; margin: 0 auto; display: flex; align-items: center; justify-content: center; opacity: 0.3; font-size: 10px; font-weight: bold; }
        @media print { body { margin: 0; } }
    </style>
`
}

func (e *HTMLExporter) getScript() string {
	return `    <script>
        window.addEventListener("load", function () { window.print(); });
    </script>
`
}
