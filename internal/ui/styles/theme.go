// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style
	TabBar         lipgloss.Style

	// ==========================================================================
	// FORM
	// ==========================================================================

	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Field         lipgloss.Style
	FieldFocused  lipgloss.Style
	FieldInvalid  lipgloss.Style
	Cycler        lipgloss.Style
	CyclerFocused lipgloss.Style
	Button        lipgloss.Style
	Success       lipgloss.Style

	// ==========================================================================
	// DASHBOARD
	// ==========================================================================

	CountBadge  lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableRow    lipgloss.Style
	Empty       lipgloss.Style
	EmptyHint   lipgloss.Style

	// ==========================================================================
	// ASSISTANT
	// ==========================================================================

	UserTurn  lipgloss.Style
	ModelTurn lipgloss.Style
	TurnTime  lipgloss.Style
	Spinner   lipgloss.Style
	Thinking  lipgloss.Style
	StatusOn  lipgloss.Style

	// ==========================================================================
	// OVERLAYS AND STATUS
	// ==========================================================================

	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalDanger  lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme creates a theme. mode "dark" or "light" pins the background;
// anything else keeps terminal detection.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(BlueSoft)

	// Tabs
	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(BlueDeep).
		Padding(0, 2)

	t.TabBar = lipgloss.NewStyle().
		MarginBottom(1)

	// Form
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LabelFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(BlueSoft)

	t.Field = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.FieldFocused = t.Field.Copy().
		BorderForeground(Blue)

	t.FieldInvalid = t.Field.Copy().
		BorderForeground(Rose)

	t.Cycler = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.CyclerFocused = t.Cycler.Copy().
		Bold(true).
		Foreground(Blue)

	t.Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(BlueDeep).
		Padding(0, 3)

	t.Success = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	// Dashboard
	t.CountBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Blue).
		Padding(0, 1)

	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.TableCell = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.TableRow = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(BlueDeep)

	t.Empty = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		Align(lipgloss.Center)

	t.EmptyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Center)

	// Assistant
	t.UserTurn = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(BlueDeep).
		Padding(0, 1)

	t.ModelTurn = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.TurnTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Blue)

	t.Thinking = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusOn = lipgloss.NewStyle().
		Foreground(Emerald)

	// Overlays
	t.Modal = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ModalDanger = t.Modal.Copy().
		BorderForeground(Rose)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(BlueSoft)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
}

// TableStyles returns bubbles table styles matching the theme.
func (t *Theme) TableStyles() table.Styles {
	return table.Styles{
		Header:   t.TableHeader,
		Cell:     t.TableCell,
		Selected: t.TableRow,
	}
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
