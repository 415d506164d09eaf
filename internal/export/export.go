// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a list of records into one output format.
type Exporter interface {
	// Export renders records in the order given.
	Export(records []student.Record) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// DefaultDelegate is the delegate named on the printed sheet.
const DefaultDelegate = "مهدي علي مهدي"

// FilePrefix starts every exported file name.
const FilePrefix = "كشف_الطلاب_"

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// Delegate is the supervising delegate printed on the sheet.
	Delegate string

	// Now supplies the export date. Default: time.Now
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir: ".",
		Delegate:  DefaultDelegate,
		Now:       time.Now,
	}
}

func (o *Options) now() time.Time {
	if o == nil || o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Options) delegate() string {
	if o == nil || o.Delegate == "" {
		return DefaultDelegate
	}
	return o.Delegate
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders records with exporter and writes the result into
// opts.OutputDir. Returns the output file path.
func ExportToFile(records []student.Record, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(records)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, FileName(opts.now(), exporter.FileExtension()))
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// FileName returns the export file name for the given date and extension.
func FileName(at time.Time, ext string) string {
	return sanitizeFilename(FilePrefix + DateStamp(at) + ext)
}

// DateStamp formats at as day-month-year with Arabic-Indic digits and no
// zero padding. Dashes stand in for the slashes a date would normally carry
// because slashes are not valid in file names.
func DateStamp(at time.Time) string {
	return util.ArabicDigits(fmt.Sprintf("%d-%d-%d", at.Day(), int(at.Month()), at.Year()))
}

// =============================================================================
// FORMAT REGISTRY
// =============================================================================

var formats = map[string]func(*Options) Exporter{
	"whatsapp": func(o *Options) Exporter { return NewWhatsAppExporter(o) },
	"text":     func(o *Options) Exporter { return NewTextExporter(o) },
	"print":    func(o *Options) Exporter { return NewHTMLExporter(o) },
	"html":     func(o *Options) Exporter { return NewHTMLExporter(o) },
	"markdown": func(o *Options) Exporter { return NewMarkdownExporter(o) },
	"json":     func(o *Options) Exporter { return NewJSONExporter(o) },
	"yaml":     func(o *Options) Exporter { return NewYAMLExporter(o) },
}

// ForFormat returns the exporter registered under name.
func ForFormat(name string, opts *Options) (Exporter, error) {
	ctor, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (available: %s)", name, strings.Join(Formats(), ", "))
	}
	return ctor(opts), nil
}

// Formats lists the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := make([]rune, 0, len(s))
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "export"
	}
	return string(result)
}
