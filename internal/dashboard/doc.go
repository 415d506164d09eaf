// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard implements the registry dashboard: searching the
// records, deleting with confirmation and the three export actions
// (WhatsApp summary, text download, printable sheet).
//
// Browser facilities are injected capabilities:
//
//   - Confirmer: blocking yes/no question before destructive actions
//   - Notifier: one-line notice such as "nothing to export"
//   - Downloader: saves a produced file and returns where it went
//   - share.Opener: opens deep links and the print view
package dashboard
