// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/form"
	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
)

// Texts of the application frame.
const (
	AppTitle    = "نظام اتحاد طلاب الشعيب"
	AppSubtitle = "مكتب مندوب العوابل"
	Footer      = "حقوق الطبع محفوظة - اتحاد الشعيب"
)

// Tab identifies the visible view.
type Tab int

const (
	TabForm Tab = iota
	TabDashboard
	TabAssistant
	tabCount
)

// Store is the part of the Record Store the TUI needs.
type Store interface {
	dashboard.Store
	form.Recorder
	Subscribe(fn func([]student.Record)) (unsubscribe func())
}

// Options wires the components into the TUI.
type Options struct {
	Store     Store
	Form      *form.Form
	Assistant *assistant.Assistant
	Theme     *styles.Theme
	Logger    *zap.Logger

	// DashboardOptions are applied when building the dashboard. The TUI
	// adds its own notifier.
	DashboardOptions []dashboard.Option

	// Context is the parent of assistant requests.
	Context context.Context
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	store  Store
	form   *form.Form
	dash   *dashboard.Dashboard
	ai     *assistant.Assistant
	theme  *styles.Theme
	keys   KeyMap
	logger *zap.Logger
	ctx    context.Context

	tab    Tab
	width  int
	height int

	// Record Store change feed
	events      chan []student.Record
	unsubscribe func()
	records     []student.Record

	// Form tab
	inputs     map[string]*textinput.Model
	focus      int
	invalid    map[string]bool
	formStatus string
	formError  string

	// Dashboard tab
	search        textinput.Model
	searching     bool
	table         table.Model
	notice        string
	noticeIsError bool
	confirm       confirmAction
	confirmID     string

	// Assistant tab
	transcript viewport.Model
	prompt     textinput.Model
	spinner    spinner.Model
	aiError    string
}

// New builds the root model and subscribes to the store.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := &Model{
		store:   opts.Store,
		form:    opts.Form,
		ai:      opts.Assistant,
		theme:   opts.Theme,
		keys:    DefaultKeyMap(),
		logger:  opts.Logger,
		ctx:     opts.Context,
		events:  make(chan []student.Record, 1),
		invalid: map[string]bool{},
	}

	dashOpts := append([]dashboard.Option{}, opts.DashboardOptions...)
	dashOpts = append(dashOpts, dashboard.WithNotifier(dashboard.NotifyFunc(m.setNotice)))
	m.dash = dashboard.New(opts.Store, dashOpts...)

	m.initFormInputs()
	m.initDashboard()
	m.initAssistant()

	m.records = opts.Store.Records()
	m.unsubscribe = opts.Store.Subscribe(m.publish)
	m.refreshTable()
	m.focusField(0)
	return m
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// publish hands a snapshot to the event loop, replacing one not yet consumed.
func (m *Model) publish(records []student.Record) {
	for {
		select {
		case m.events <- records:
			return
		default:
			select {
			case <-m.events:
			default:
			}
		}
	}
}

// waitForRecords delivers the next store snapshot as a message.
func (m *Model) waitForRecords() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return RecordsChangedMsg{Records: <-events}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForRecords())
}

// ActiveTab returns the visible tab.
func (m *Model) ActiveTab() Tab { return m.tab }

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case RecordsChangedMsg:
		m.records = msg.Records
		m.refreshTable()
		return m, m.waitForRecords()

	case SuccessExpiredMsg:
		m.form.DismissSuccess(msg.Seq)
		if !m.form.ShowingSuccess() {
			m.formStatus = ""
		}
		return m, nil

	case AssistantReplyMsg:
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.ai.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other widget messages
	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.confirm != confirmNone {
		return m, m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.tab + tabCount - 1) % tabCount)
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.FormTab):
			return m, m.switchTab(TabForm)
		case key.Matches(msg, m.keys.DashTab):
			return m, m.switchTab(TabDashboard)
		case key.Matches(msg, m.keys.AITab):
			return m, m.switchTab(TabAssistant)
		}
	}

	switch m.tab {
	case TabForm:
		return m, m.handleFormKey(msg)
	case TabDashboard:
		return m, m.handleDashboardKey(msg)
	default:
		return m, m.handleAssistantKey(msg)
	}
}

// typing reports whether a text input has focus, so digits go to it.
func (m *Model) typing() bool {
	switch m.tab {
	case TabForm:
		return !student.IsEnumerated(student.Fields[m.focus])
	case TabDashboard:
		return m.searching
	default:
		return true
	}
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	m.tab = t
	switch t {
	case TabForm:
		return m.focusField(m.focus)
	case TabDashboard:
		m.prompt.Blur()
		m.refreshTable()
		return nil
	default:
		m.blurFormInputs()
		m.refreshTranscript()
		return m.prompt.Focus()
	}
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.tab {
	case TabForm:
		if in, ok := m.inputs[student.Fields[m.focus]]; ok {
			*in, cmd = in.Update(msg)
		}
	case TabDashboard:
		if m.searching {
			m.search, cmd = m.search.Update(msg)
		}
	default:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)

	inputWidth := clamp(width-8, 20, 80)
	for _, in := range m.inputs {
		in.Width = inputWidth
	}
	m.search.Width = inputWidth
	m.prompt.Width = clamp(width-6, 20, 120)

	m.table.SetWidth(clamp(width-2, 40, 240))
	m.table.SetHeight(clamp(height-14, 3, 200))
	m.table.SetColumns(tableColumns(width))

	m.transcript.Width = clamp(width-2, 20, 240)
	m.transcript.Height = clamp(height-12, 3, 200)
	m.refreshTranscript()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
