// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/shuaib-registry/internal/util"
)

// TabLabel returns the label of tab t; the dashboard label carries the
// record count.
func TabLabel(t Tab, count int) string {
	switch t {
	case TabForm:
		return "إدخال البيانات"
	case TabDashboard:
		return "لوحة التحكم (" + util.ArabicDigits(strconv.Itoa(count)) + ")"
	default:
		return "المساعد الذكي (AI)"
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	t := m.theme

	header := t.Header.Render(
		t.HeaderTitle.Render(AppTitle) + "\n" + t.HeaderSubtitle.Render(AppSubtitle),
	)

	tabs := make([]string, 0, tabCount)
	for tab := TabForm; tab < tabCount; tab++ {
		style := t.Tab
		if tab == m.tab {
			style = t.TabActive
		}
		tabs = append(tabs, style.Render(TabLabel(tab, len(m.records))))
	}
	tabBar := t.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	var body string
	var help []key.Binding
	switch m.tab {
	case TabForm:
		body, help = m.formView(), m.formHelp()
	case TabDashboard:
		body, help = m.dashboardView(), m.dashboardHelp()
	default:
		body, help = m.assistantView(), m.assistantHelp()
	}

	if m.confirm != confirmNone {
		modal := m.confirmView()
		if m.width > 0 {
			body = lipgloss.Place(m.width-2, lipgloss.Height(body), lipgloss.Center, lipgloss.Center, modal)
		} else {
			body = modal
		}
		help = []key.Binding{m.keys.Yes, m.keys.No}
	}

	status := t.StatusBar.Render(strings.Join(helpLine(func(k, d string) string {
		return t.ShortcutKey.Render(k) + " " + t.ShortcutDesc.Render(d)
	}, help...), "  ") + "\n" + t.ShortcutDesc.Render(Footer))

	return t.App.Render(lipgloss.JoinVertical(lipgloss.Left, header, tabBar, body, status))
}
