// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings of the TUI.
type KeyMap struct {
	// Global
	NextTab  key.Binding
	PrevTab  key.Binding
	FormTab  key.Binding
	DashTab  key.Binding
	AITab    key.Binding
	Quit     key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	CycleNext key.Binding
	CyclePrev key.Binding
	Submit    key.Binding

	// Dashboard
	Search    key.Binding
	Blur      key.Binding
	Delete    key.Binding
	ClearAll  key.Binding
	WhatsApp  key.Binding
	Print     key.Binding
	Download  key.Binding

	// Confirmation modal
	Yes key.Binding
	No  key.Binding

	// Assistant
	Send     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous tab"),
		),
		FormTab: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "form")),
		DashTab: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "dashboard")),
		AITab:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "assistant")),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),

		NextField: key.NewBinding(
			key.WithKeys("down", "enter"),
			key.WithHelp("↓/Enter", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous field"),
		),
		CycleNext: key.NewBinding(
			key.WithKeys("right", " "),
			key.WithHelp("→", "next option"),
		),
		CyclePrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save & send"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("Esc", "leave search"),
		),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ClearAll: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		WhatsApp: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "whatsapp")),
		Print:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "print")),
		Download: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "text file")),

		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),

		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		ScrollUp: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "scroll up")),
		ScrollDn: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "scroll down")),
	}
}

// tableKeyMap keeps row navigation on keys the dashboard does not claim.
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.LineUp = key.NewBinding(key.WithKeys("up", "k"))
	km.LineDown = key.NewBinding(key.WithKeys("down", "j"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.GotoTop = key.NewBinding(key.WithKeys("home", "g"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end", "G"))
	return km
}

// helpLine renders "key desc" pairs for the status bar.
func helpLine(render func(k, d string) string, bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, render(h.Key, h.Desc))
	}
	return out
}
