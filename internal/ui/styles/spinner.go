// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// AssistantSpinner - Three bouncing dots, as in the web app
var AssistantSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// NewSpinner returns the assistant spinner in the theme's accent.
func (t *Theme) NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(AssistantSpinner),
		spinner.WithStyle(t.Spinner),
	)
}
