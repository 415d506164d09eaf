// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
	"github.com/jeranaias/shuaib-registry/internal/util"
)

// Dashboard tab messages.
const (
	SharedText     = "تم فتح واتساب بكشف الطلاب."
	DownloadedText = "تم حفظ الملف: "
	PrintedText    = "تم فتح صفحة الطباعة: "
	DeletedText    = "تم حذف السجل."
	ClearedText    = "تم مسح كافة البيانات."
	ActionFailed   = "تعذر تنفيذ العملية: "
	NoMatchText    = "لا توجد نتائج مطابقة للبحث."
)

func (m *Model) initDashboard() {
	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = dashboard.SearchPlaceholder
	m.search.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)

	m.table = table.New(
		table.WithColumns(tableColumns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(tableKeyMap()),
		table.WithStyles(m.theme.TableStyles()),
	)
}

// tableColumns sizes the dashboard columns to the terminal width.
func tableColumns(width int) []table.Column {
	avail := clamp(width-16, 60, 220)
	unit := avail / 12
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "الاسم الرباعي", Width: unit * 3},
		{Title: "القرية", Width: unit * 1},
		{Title: "الجامعة / الكلية", Width: unit * 3},
		{Title: "التخصص", Width: unit * 2},
		{Title: "المستوى", Width: unit * 1},
		{Title: "الموقع", Width: avail - unit*10},
	}
}

// refreshTable rebuilds the rows from the filtered records.
func (m *Model) refreshTable() {
	m.dash.SetSearch(m.search.Value())
	visible := m.dash.Visible()

	rows := make([]table.Row, 0, len(visible))
	for i, r := range visible {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.FullName,
			r.Village,
			r.University + " / " + r.College,
			r.Major,
			r.AcademicLevel,
			r.StudyLocation,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
	if m.table.Cursor() < 0 && len(rows) > 0 {
		m.table.SetCursor(0)
	}
}

// selectedID returns the id of the highlighted visible record.
func (m *Model) selectedID() (string, bool) {
	visible := m.dash.Visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return "", false
	}
	return visible[i].ID, true
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeIsError = false
}

func (m *Model) setFailure(err error) {
	m.logger.Warn("dashboard action failed", zap.Error(err))
	m.notice = ActionFailed + err.Error()
	m.noticeIsError = true
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		if key.Matches(msg, m.keys.Blur) {
			m.searching = false
			m.search.Blur()
			m.table.Focus()
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refreshTable()
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.table.Blur()
		return m.search.Focus()

	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			m.confirm, m.confirmID = confirmDelete, id
		}
		return nil

	case key.Matches(msg, m.keys.ClearAll):
		m.confirm = confirmClear
		return nil

	case key.Matches(msg, m.keys.WhatsApp):
		m.notice = ""
		if _, err := m.dash.ShareWhatsApp(); err != nil {
			if !errors.Is(err, dashboard.ErrNoRecords) {
				m.setFailure(err)
			}
			return nil
		}
		m.setNotice(SharedText)
		return nil

	case key.Matches(msg, m.keys.Download):
		m.notice = ""
		path, err := m.dash.DownloadText()
		if err != nil {
			if !errors.Is(err, dashboard.ErrNoRecords) {
				m.setFailure(err)
			}
			return nil
		}
		m.setNotice(DownloadedText + path)
		return nil

	case key.Matches(msg, m.keys.Print):
		path, err := m.dash.Print()
		if err != nil {
			m.setFailure(err)
			return nil
		}
		m.setNotice(PrintedText + path)
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

// handleConfirmKey answers the open confirmation modal.
func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	var yes bool
	switch {
	case key.Matches(msg, m.keys.Yes):
		yes = true
	case key.Matches(msg, m.keys.No):
	default:
		return nil
	}

	action, id := m.confirm, m.confirmID
	m.confirm, m.confirmID = confirmNone, ""

	switch action {
	case confirmDelete:
		removed, err := m.dash.Delete(id, dashboard.Answer(yes))
		if err != nil {
			m.setFailure(err)
		} else if removed {
			m.setNotice(DeletedText)
		}
	case confirmClear:
		cleared, err := m.dash.ClearAll(dashboard.Answer(yes))
		if err != nil {
			m.setFailure(err)
		} else if cleared {
			m.setNotice(ClearedText)
		}
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) dashboardView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.CardTitle.Render(dashboard.Title))
	b.WriteString("  ")
	b.WriteString(t.Label.Render(dashboard.CountLabel + ":"))
	b.WriteString(" ")
	b.WriteString(t.CountBadge.Render(util.ArabicDigits(strconv.Itoa(len(m.records)))))
	b.WriteString("\n\n")

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case len(m.records) == 0:
		b.WriteString(t.Empty.Render(dashboard.EmptyTitle))
		b.WriteString("\n")
		b.WriteString(t.EmptyHint.Render(dashboard.EmptyHint))
	case len(m.table.Rows()) == 0:
		b.WriteString(t.EmptyHint.Render(NoMatchText))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n")
		if m.noticeIsError {
			b.WriteString(styles.RenderError(m.notice))
		} else {
			b.WriteString(styles.RenderWarning(m.notice))
		}
	}
	return b.String()
}

// confirmView renders the open confirmation modal.
func (m *Model) confirmView() string {
	t := m.theme
	box, prompt := t.Modal, dashboard.DeletePrompt
	if m.confirm == confirmClear {
		box, prompt = t.ModalDanger, dashboard.ClearPrompt
	}
	body := t.ModalTitle.Render(prompt) + "\n\n" +
		t.ShortcutKey.Render("y") + " " + t.ShortcutDesc.Render("نعم") + "    " +
		t.ShortcutKey.Render("n") + " " + t.ShortcutDesc.Render("إلغاء")
	return box.Render(body)
}

func (m *Model) dashboardHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Blur, m.keys.Quit}
	}
	return []key.Binding{
		m.keys.Search, m.keys.Delete, m.keys.ClearAll, m.keys.WhatsApp,
		m.keys.Print, m.keys.Download, m.keys.NextTab, m.keys.Quit,
	}
}
