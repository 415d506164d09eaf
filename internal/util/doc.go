// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the registry.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// Text:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - PadWidth, TruncateWidth: display-width aware column layout
//   - ArabicDigits: rewrite ASCII digits as Arabic-Indic digits
//
// # Usage
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Align a table cell that contains Arabic text
//	cell := util.PadWidth(record.FullName, 24)
package util
