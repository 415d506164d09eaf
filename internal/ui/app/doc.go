// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app provides the root Bubble Tea model of the registry TUI.

The model composes three tabs over one Record Store:

  - إدخال البيانات: the registration form (form.Form)
  - لوحة التحكم (N): search, table, delete, clear and exports (dashboard.Dashboard)
  - المساعد الذكي (AI): the Gemini assistant transcript (assistant.Assistant)

Store changes reach the event loop through a subscription that feeds a
channel; a tea.Cmd waits on that channel and delivers RecordsChangedMsg.
Assistant requests run in a tea.Cmd while a spinner animates.

# Usage

	m := app.New(app.Options{Store: store, Form: f, Assistant: a, Theme: theme})
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
*/
package app
