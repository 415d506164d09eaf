// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the registry TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals. The palette follows the original web app: blue accents
on slate surfaces.

# Color System (colors.go)

	Blue      - Brand color, active tab, focused field, user turns
	Emerald   - Success indicator
	Rose      - Errors and destructive prompts
	Amber     - Notices and warnings
	Slate*    - Surfaces, borders and muted text

# Theme System (theme.go)

	theme := styles.NewTheme("dark")
	header := theme.Header.Render(title)

NewTheme pins the background mode when the configured theme is "dark" or
"light" instead of relying on terminal detection.

# Spinner (spinner.go)

AssistantSpinner is the bubbles spinner shown while an AI request is
outstanding.
*/
package styles
