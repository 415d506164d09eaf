// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNewTheme_PinsBackground(t *testing.T) {
	defer lipgloss.SetHasDarkBackground(lipgloss.HasDarkBackground())

	assert.True(t, NewTheme("dark").IsDark)
	assert.False(t, NewTheme("light").IsDark)
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme("dark")
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestRenderStatus_IncludesIndicator(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("تم"), StatusIndicators.Success))
	assert.True(t, strings.Contains(RenderError("خطأ"), StatusIndicators.Error))
	assert.True(t, strings.Contains(RenderWarning("تنبيه"), StatusIndicators.Warning))
	assert.True(t, strings.Contains(RenderInfo("معلومة"), StatusIndicators.Info))
}

func TestTableStyles(t *testing.T) {
	theme := NewTheme("dark")
	s := theme.TableStyles()
	assert.True(t, s.Header.GetBold())
	assert.True(t, s.Selected.GetBold())
}

func TestNewSpinner(t *testing.T) {
	sp := NewTheme("dark").NewSpinner()
	assert.Equal(t, AssistantSpinner.Frames, sp.Spinner.Frames)
}
