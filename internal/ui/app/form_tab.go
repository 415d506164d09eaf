// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/form"
	"github.com/jeranaias/shuaib-registry/internal/student"
	"github.com/jeranaias/shuaib-registry/internal/ui/styles"
)

// Form tab messages.
const (
	MissingFieldsText = "يرجى تعبئة الحقول التالية: "
	SaveFailedText    = "تعذر حفظ البيانات: "
	OpenFailedText    = "تم الحفظ، لكن تعذر فتح واتساب. تم نسخ الرابط إن أمكن."
	SubmitLabel       = "حفظ وإرسال للواتساب"
)

func (m *Model) initFormInputs() {
	m.inputs = make(map[string]*textinput.Model)
	for _, field := range student.Fields {
		if student.IsEnumerated(field) {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = form.Placeholder(field)
		in.CharLimit = 120
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
		in.SetValue(m.form.Value(field))
		m.inputs[field] = &in
	}
}

// focusField moves form focus to the field at index i.
func (m *Model) focusField(i int) tea.Cmd {
	m.focus = (i + len(student.Fields)) % len(student.Fields)
	m.blurFormInputs()
	if in, ok := m.inputs[student.Fields[m.focus]]; ok && m.tab == TabForm {
		return in.Focus()
	}
	return nil
}

func (m *Model) blurFormInputs() {
	for _, in := range m.inputs {
		in.Blur()
	}
}

// syncInputs copies the form's values into the text inputs.
func (m *Model) syncInputs() {
	for field, in := range m.inputs {
		in.SetValue(m.form.Value(field))
	}
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	field := student.Fields[m.focus]

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case key.Matches(msg, m.keys.NextField):
		if msg.String() == "enter" && m.focus == len(student.Fields)-1 {
			return m.submitForm()
		}
		return m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField(m.focus - 1)
	}

	if student.IsEnumerated(field) {
		switch {
		case key.Matches(msg, m.keys.CycleNext):
			m.form.Cycle(field, 1)
		case key.Matches(msg, m.keys.CyclePrev):
			m.form.Cycle(field, -1)
		}
		delete(m.invalid, field)
		return nil
	}

	in := m.inputs[field]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if err := m.form.SetField(field, in.Value()); err != nil {
		m.logger.Debug("form rejected value", zap.String("field", field), zap.Error(err))
	}
	if strings.TrimSpace(in.Value()) != "" {
		delete(m.invalid, field)
	}
	return cmd
}

func (m *Model) submitForm() tea.Cmd {
	m.formError = ""
	res, err := m.form.Submit()
	if err != nil {
		var verrs student.ValidationErrors
		if errors.As(err, &verrs) {
			m.invalid = map[string]bool{}
			labels := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				m.invalid[fe.Field] = true
				labels = append(labels, form.Label(fe.Field))
			}
			m.formError = MissingFieldsText + strings.Join(labels, "، ")
			return m.focusField(indexOf(student.Fields, verrs[0].Field))
		}
		m.logger.Error("form submission failed", zap.Error(err))
		m.formError = SaveFailedText + err.Error()
		return nil
	}

	m.invalid = map[string]bool{}
	m.syncInputs()
	m.formStatus = form.SuccessText
	if res.OpenErr != nil {
		m.formStatus = OpenFailedText
	}
	seq := res.Seq
	return tea.Batch(
		m.focusField(0),
		tea.Tick(form.SuccessDuration, func(time.Time) tea.Msg {
			return SuccessExpiredMsg{Seq: seq}
		}),
	)
}

func indexOf(set []string, s string) int {
	for i, v := range set {
		if v == s {
			return i
		}
	}
	return 0
}

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) formView() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.CardTitle.Render(form.Heading))
	b.WriteString("\n")
	b.WriteString(t.Label.Render(form.Subheading))
	b.WriteString("\n\n")

	for i, field := range student.Fields {
		focused := i == m.focus

		label := t.Label
		if focused {
			label = t.LabelFocused
		}
		b.WriteString(label.Render(form.Label(field)))
		b.WriteString("\n")

		if student.IsEnumerated(field) {
			cycler := t.Cycler
			if focused {
				cycler = t.CyclerFocused
			}
			b.WriteString(cycler.Render("‹ " + m.form.Value(field) + " ›"))
		} else {
			box := t.Field
			switch {
			case m.invalid[field]:
				box = t.FieldInvalid
			case focused:
				box = t.FieldFocused
			}
			b.WriteString(box.Render(m.inputs[field].View()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.Button.Render(SubmitLabel))
	b.WriteString("\n")

	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(styles.RenderError(m.formError))
	}
	if m.form.ShowingSuccess() && m.formStatus != "" {
		b.WriteString("\n")
		b.WriteString(t.Success.Render(m.formStatus))
	}

	return t.Card.Render(b.String())
}

func (m *Model) formHelp() []key.Binding {
	return []key.Binding{m.keys.NextField, m.keys.PrevField, m.keys.CycleNext, m.keys.Submit, m.keys.NextTab, m.keys.Quit}
}
