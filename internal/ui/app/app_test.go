// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/dashboard"
	"github.com/jeranaias/shuaib-registry/internal/export"
	"github.com/jeranaias/shuaib-registry/internal/form"
	"github.com/jeranaias/shuaib-registry/internal/gemini"
	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/share"
	"github.com/jeranaias/shuaib-registry/internal/storage"
	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type stubService struct {
	extraction gemini.Extraction
	err        error
}

func (s stubService) Extract(context.Context, string) (gemini.Extraction, error) {
	return s.extraction, s.err
}

func (s stubService) Reply(context.Context, []gemini.Message) (string, error) {
	return "", s.err
}

type recordingOpener struct {
	mu      sync.Mutex
	targets []string
}

func (o *recordingOpener) Open(target string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = append(o.targets, target)
	return nil
}

func (o *recordingOpener) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.targets...)
}

type harness struct {
	m      *Model
	store  *storage.Store
	opener *recordingOpener
	dir    string
}

func newHarness(t *testing.T, svc gemini.Service) *harness {
	t.Helper()
	store := storage.Open(kv.NewMemoryStorage())
	opener := &recordingOpener{}
	dir := t.TempDir()

	m := New(Options{
		Store:     store,
		Form:      form.New(store, opener),
		Assistant: assistant.New(svc, store),
		Theme:     styles.NewTheme("dark"),
		DashboardOptions: []dashboard.Option{
			dashboard.WithOpener(opener),
			dashboard.WithExportOptions(&export.Options{
				OutputDir: dir,
				Delegate:  export.DefaultDelegate,
				Now:       func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) },
			}),
		},
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &harness{m: m, store: store, opener: opener, dir: dir}
}

func (h *harness) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = h.m.Update(msg)
	}
	return cmd
}

// sync delivers the pending store snapshot, as the event loop would.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	select {
	case recs := <-h.m.events:
		h.send(RecordsChangedMsg{Records: recs})
	case <-time.After(time.Second):
		t.Fatal("no store change delivered")
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyTab     = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTb = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown    = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter   = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc     = tea.KeyMsg{Type: tea.KeyEsc}
	keySave    = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// collect runs cmd and any batched commands, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fillForm(h *harness, d student.Draft) {
	for _, field := range student.Fields {
		if !student.IsEnumerated(field) {
			h.send(runes(d.Get(field)))
		}
		h.send(keyDown)
	}
}

func validDraft() student.Draft {
	d := student.NewDraft()
	d.FullName = "محمد علي أحمد صالح"
	d.University = "جامعة عدن"
	d.College = "كلية الطب"
	d.Major = "طب بشري"
	d.AcademicLevel = "سنة ثانية"
	return d
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestTabs_CycleWithTab(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	assert.Equal(t, TabForm, h.m.ActiveTab())
	h.send(keyTab)
	assert.Equal(t, TabDashboard, h.m.ActiveTab())
	h.send(keyTab)
	assert.Equal(t, TabAssistant, h.m.ActiveTab())
	h.send(keyTab)
	assert.Equal(t, TabForm, h.m.ActiveTab())
	h.send(keyShiftTb)
	assert.Equal(t, TabAssistant, h.m.ActiveTab())
}

func TestTabs_DigitsOnlyWhenNotTyping(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	// Full name input has focus, so the digit is typed
	h.send(runes("2"))
	assert.Equal(t, TabForm, h.m.ActiveTab())
	assert.Equal(t, "2", h.m.form.Value(student.FieldFullName))

	// Village cycler has focus
	h.send(keyDown)
	h.send(runes("2"))
	assert.Equal(t, TabDashboard, h.m.ActiveTab())

	h.send(runes("1"))
	assert.Equal(t, TabForm, h.m.ActiveTab())
}

func TestView_ShowsTitleAndCount(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	_, err := h.store.Add(validDraft())
	require.NoError(t, err)
	h.sync(t)

	view := h.m.View()
	assert.Contains(t, view, AppTitle)
	assert.Contains(t, view, TabLabel(TabDashboard, 1))
	assert.Equal(t, "لوحة التحكم (١)", TabLabel(TabDashboard, 1))
}

// =============================================================================
// FORM TAB
// =============================================================================

func TestForm_SubmitSavesAndOpensWhatsApp(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	fillForm(h, validDraft())
	cmd := h.send(keySave)
	require.NotNil(t, cmd)

	recs := h.store.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "محمد علي أحمد صالح", recs[0].FullName)
	assert.Equal(t, student.DefaultVillage(), recs[0].Village)

	opened := h.opener.opened()
	require.Len(t, opened, 1)
	assert.True(t, strings.HasPrefix(opened[0], share.BaseURL+share.DefaultRecipient+"?text="))

	assert.True(t, h.m.form.ShowingSuccess())
	assert.Contains(t, h.m.View(), form.SuccessText)

	// Fields reset after submission
	assert.Equal(t, "", h.m.inputs[student.FieldFullName].Value())
	assert.Equal(t, "", h.m.form.Value(student.FieldMajor))

	h.send(SuccessExpiredMsg{Seq: 1})
	assert.False(t, h.m.form.ShowingSuccess())
	assert.NotContains(t, h.m.View(), form.SuccessText)
}

func TestForm_CyclerChangesVillage(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	h.send(keyDown)
	h.send(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, student.Villages()[1], h.m.form.Value(student.FieldVillage))
	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	villages := student.Villages()
	assert.Equal(t, villages[len(villages)-1], h.m.form.Value(student.FieldVillage))
}

func TestForm_MissingFieldsBlockSubmission(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	h.send(runes("اسم فقط"))
	h.send(keySave)

	assert.Equal(t, 0, h.store.Len())
	assert.Empty(t, h.opener.opened())
	assert.True(t, h.m.invalid[student.FieldUniversity])
	assert.False(t, h.m.invalid[student.FieldFullName])
	assert.Contains(t, h.m.formError, form.Label(student.FieldUniversity))
	// Focus jumps to the first invalid field
	assert.Equal(t, student.FieldUniversity, student.Fields[h.m.focus])
	// Typed value survives
	assert.Equal(t, "اسم فقط", h.m.form.Value(student.FieldFullName))
}

func TestForm_EnterOnLastFieldSubmits(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})

	fillForm(h, validDraft())
	// fillForm wrapped focus back to the first field
	for i := 0; i < len(student.Fields)-1; i++ {
		h.send(keyDown)
	}
	h.send(keyEnter)
	assert.Equal(t, 1, h.store.Len())
}

// =============================================================================
// DASHBOARD TAB
// =============================================================================

func seed(t *testing.T, h *harness, names ...string) {
	t.Helper()
	for _, name := range names {
		d := validDraft()
		d.FullName = name
		_, err := h.store.Add(d)
		require.NoError(t, err)
		h.sync(t)
	}
}

func TestDashboard_DeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seed(t, h, "الأول", "الثاني")
	h.send(keyTab)

	h.send(runes("d"))
	assert.Contains(t, h.m.View(), dashboard.DeletePrompt)

	h.send(runes("n"))
	assert.Equal(t, 2, h.store.Len())
	assert.NotContains(t, h.m.View(), dashboard.DeletePrompt)

	// Newest record is first and selected
	h.send(runes("d"))
	h.send(runes("y"))
	h.sync(t)
	recs := h.store.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "الأول", recs[0].FullName)
	assert.Equal(t, DeletedText, h.m.notice)
}

func TestDashboard_ModalSwallowsOtherKeys(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seed(t, h, "الأول")
	h.send(keyTab)

	h.send(runes("X"))
	h.send(keyTab)
	h.send(runes("w"))
	assert.Equal(t, TabDashboard, h.m.ActiveTab())
	assert.Empty(t, h.opener.opened())
	assert.Contains(t, h.m.View(), dashboard.ClearPrompt)

	h.send(keyEsc)
	assert.Equal(t, 1, h.store.Len())
}

func TestDashboard_ClearAll(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seed(t, h, "الأول", "الثاني")
	h.send(keyTab)

	h.send(runes("X"))
	h.send(runes("y"))
	h.sync(t)
	assert.Equal(t, 0, h.store.Len())
	assert.Contains(t, h.m.View(), dashboard.EmptyTitle)
}

func TestDashboard_ClearAsksEvenWhenEmpty(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	h.send(keyTab)

	h.send(runes("X"))
	assert.Contains(t, h.m.View(), dashboard.ClearPrompt)

	h.send(runes("n"))
	assert.NotContains(t, h.m.View(), dashboard.ClearPrompt)
	assert.Empty(t, h.m.notice)

	h.send(runes("X"))
	h.send(runes("y"))
	h.sync(t)
	assert.Equal(t, 0, h.store.Len())
	assert.Equal(t, ClearedText, h.m.notice)
}

func TestDashboard_SearchFiltersRows(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seed(t, h, "أحمد", "خالد", "أحمد الثاني")
	h.send(keyTab)

	h.send(runes("/"))
	h.send(runes("أحمد"))
	assert.Len(t, h.m.table.Rows(), 2)

	// Digits are typed into the search box
	h.send(runes("3"))
	assert.Equal(t, TabDashboard, h.m.ActiveTab())
	assert.Empty(t, h.m.table.Rows())
	assert.Contains(t, h.m.View(), NoMatchText)

	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	h.send(keyEsc)
	assert.False(t, h.m.searching)
	assert.Len(t, h.m.table.Rows(), 2)
}

func TestDashboard_ExportsOnEmptyRegistryShowNotice(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	h.send(keyTab)

	h.send(runes("w"))
	assert.Equal(t, dashboard.NoDataNotice, h.m.notice)
	h.m.notice = ""
	h.send(runes("t"))
	assert.Equal(t, dashboard.NoDataNotice, h.m.notice)
	assert.Empty(t, h.opener.opened())
}

func TestDashboard_ExportActions(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seed(t, h, "الأول")
	h.send(keyTab)

	h.send(runes("w"))
	assert.Equal(t, SharedText, h.m.notice)

	h.send(runes("t"))
	assert.True(t, strings.HasPrefix(h.m.notice, DownloadedText))
	assert.Contains(t, h.m.notice, h.dir)

	h.send(runes("p"))
	assert.True(t, strings.HasPrefix(h.m.notice, PrintedText))

	opened := h.opener.opened()
	require.Len(t, opened, 2)
	assert.True(t, strings.HasPrefix(opened[0], share.BaseURL))
	assert.True(t, strings.HasSuffix(opened[1], ".html"))
}

// =============================================================================
// ASSISTANT TAB
// =============================================================================

func TestAssistant_SendAddsRecord(t *testing.T) {
	svc := stubService{extraction: gemini.Extraction{
		FullName:      "سالم محمد علي حسن",
		Village:       student.Villages()[2],
		University:    "جامعة عدن",
		College:       "كلية الهندسة",
		Major:         "مدني",
		AcademicLevel: "سنة أولى",
		StudyLocation: student.DefaultStudyLocation(),
		IsComplete:    true,
	}}
	h := newHarness(t, svc)
	h.send(keyShiftTb)
	require.Equal(t, TabAssistant, h.m.ActiveTab())

	h.send(runes("سجل الطالب سالم"))
	cmd := h.send(keyEnter)
	require.NotNil(t, cmd)
	assert.True(t, h.m.ai.Busy())
	assert.Equal(t, "", h.m.prompt.Value())
	assert.Contains(t, h.m.View(), assistant.Thinking)

	// A second send while busy is ignored
	h.send(runes("مرة أخرى"))
	assert.Nil(t, h.send(keyEnter))

	for _, msg := range collect(cmd) {
		h.send(msg)
	}
	assert.False(t, h.m.ai.Busy())
	assert.Equal(t, 1, h.store.Len())

	turns := h.m.ai.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, assistant.RoleUser, turns[1].Role)
	assert.Equal(t, "سجل الطالب سالم", turns[1].Text)
	assert.NotContains(t, h.m.View(), assistant.Thinking)
}

func TestAssistant_EmptyInputIgnored(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	h.send(keyShiftTb)

	assert.Nil(t, h.send(keyEnter))
	assert.Len(t, h.m.ai.Transcript(), 1)
}

func TestAssistant_UnavailableServiceKeepsAppWorking(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	h.send(keyShiftTb)

	h.send(runes("مرحبا"))
	for _, msg := range collect(h.send(keyEnter)) {
		h.send(msg)
	}

	turns := h.m.ai.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, assistant.GenericFailure, turns[2].Text)
	assert.Equal(t, 0, h.store.Len())
}

type deadlineService struct {
	mu          sync.Mutex
	hadDeadline []bool
}

func (s *deadlineService) Extract(ctx context.Context, _ string) (gemini.Extraction, error) {
	s.record(ctx)
	return gemini.Extraction{}, gemini.ErrMalformed
}

func (s *deadlineService) Reply(ctx context.Context, _ []gemini.Message) (string, error) {
	s.record(ctx)
	return "أهلاً", nil
}

func (s *deadlineService) record(ctx context.Context) {
	_, ok := ctx.Deadline()
	s.mu.Lock()
	s.hadDeadline = append(s.hadDeadline, ok)
	s.mu.Unlock()
}

func TestAssistant_RequestsWaitWithoutDeadline(t *testing.T) {
	svc := &deadlineService{}
	h := newHarness(t, svc)
	h.send(keyShiftTb)

	h.send(runes("مرحبا"))
	for _, msg := range collect(h.send(keyEnter)) {
		h.send(msg)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []bool{false, false}, svc.hadDeadline)
	assert.Equal(t, "أهلاً", h.m.ai.Transcript()[2].Text)
}

// =============================================================================
// STORE SUBSCRIPTION
// =============================================================================

func TestClose_StopsStoreUpdates(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	h.m.Close()

	_, err := h.store.Add(validDraft())
	require.NoError(t, err)

	select {
	case <-h.m.events:
		t.Fatal("snapshot delivered after Close")
	default:
	}
}

func TestPublish_KeepsLatestSnapshot(t *testing.T) {
	h := newHarness(t, gemini.Unavailable{})
	seedDraft := validDraft()

	_, err := h.store.Add(seedDraft)
	require.NoError(t, err)
	_, err = h.store.Add(seedDraft)
	require.NoError(t, err)

	msg := h.m.waitForRecords()()
	changed, ok := msg.(RecordsChangedMsg)
	require.True(t, ok)
	assert.Len(t, changed.Records, 2)
}
