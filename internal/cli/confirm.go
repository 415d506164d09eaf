// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation prompts for destructive registry commands.
//
// delete and clear follow one flow:
//  1. --yes answers for the user.
//  2. JSON mode never prompts, so it needs --yes.
//  3. A non-terminal stdin cannot prompt, so it needs --yes.
//  4. Otherwise the dashboard prompt is shown and read from stdin.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/dashboard"
)

// ErrConfirmationRequired is returned when a destructive command cannot
// prompt and --yes was not given.
var ErrConfirmationRequired = errors.New("confirmation required: pass --yes")

// CancelledText is printed when the user declines a prompt.
const CancelledText = "تم الإلغاء."

// Prompter asks yes/no questions on the command's streams.
type Prompter struct {
	In         io.Reader
	Out        io.Writer
	IsTerminal func() bool
}

// RequireConfirmation returns the Confirmer a destructive command should
// hand to the dashboard.
func (p Prompter) RequireConfirmation(yes, jsonMode bool) (dashboard.Confirmer, error) {
	if yes {
		return dashboard.Answer(true), nil
	}
	if jsonMode {
		return nil, fmt.Errorf("%w (JSON mode does not prompt)", ErrConfirmationRequired)
	}
	if p.IsTerminal == nil || !p.IsTerminal() {
		return nil, fmt.Errorf("%w (stdin is not a terminal)", ErrConfirmationRequired)
	}
	return dashboard.ConfirmFunc(p.ask), nil
}

func (p Prompter) ask(prompt string) bool {
	fmt.Fprintln(p.Out)
	fmt.Fprintf(p.Out, "%s [y/N]: ", RenderConditional(WarningStyle, prompt))

	input, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	return IsYes(input)
}

// IsYes reports whether a typed answer means yes. Arabic answers count.
func IsYes(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "نعم", "ن":
		return true
	}
	return false
}
