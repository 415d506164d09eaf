// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the registry command line.
//
// With no subcommand the Bubble Tea UI starts. The subcommands drive the
// same form, dashboard and assistant for scripting:
//
//	registry add --name ... [--no-share]
//	registry list [--search TERM]
//	registry delete ID [--yes]
//	registry clear [--yes]
//	registry export FORMAT [--out DIR] [--stdout]
//	registry import FILE
//	registry ask TEXT
//	registry chat
//	registry config show|path|init|get|set
//
// Every subcommand accepts --json and then writes a JSONResponse envelope
// instead of human text. Destructive commands prompt only when stdin is a
// terminal; otherwise they need --yes.
package cli
