// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders the student registry into shareable listings.
//
// # Key Types
//
//   - Exporter: interface every listing format implements
//   - WhatsAppExporter: numbered summary block sent as a chat message
//   - TextExporter: plain UTF-8 listing for download
//   - HTMLExporter: right-to-left printable sheet that prints itself on load
//   - MarkdownExporter, JSONExporter, YAMLExporter: full dumps
//
// # Usage
//
//	opts := export.DefaultOptions()
//	opts.OutputDir = exportDir
//	path, err := export.ExportToFile(records, export.NewTextExporter(opts), opts)
//
// File names carry the export date in day-month-year order written with
// Arabic-Indic digits, for example كشف_الطلاب_١٨-١٠-٢٠٢٦.txt.
package export
