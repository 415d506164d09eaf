// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
)

// requestTimeout bounds one assistant request made from the command line,
// where no one can dismiss a hung call.
const requestTimeout = 90 * time.Second

// newMarkdownRenderer returns nil when glamour cannot be set up; callers
// then print plain text.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderReply renders an assistant reply as markdown on a terminal and
// leaves it untouched otherwise.
func renderReply(r *glamour.TermRenderer, reply string, tty bool) string {
	if !tty || r == nil {
		return reply + "\n"
	}
	out, err := r.Render(reply)
	if err != nil {
		return reply + "\n"
	}
	return out
}

func newAskCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ask TEXT...",
		Short: "Send one message to the AI assistant",
		Long: `Send one message to the AI assistant and print its reply.

Pasted student details are extracted and, when complete, added to the
registry. Anything else gets a conversational answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			a, err := e.assistant(cmd)
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")
			before := e.store.Len()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			turn, err := a.Send(ctx, prompt)
			if err != nil {
				return err
			}

			data := AskData{Prompt: prompt, Reply: turn.Text, Added: e.store.Len() > before}
			return emit(cmd, e, data, func(w io.Writer) {
				fmt.Fprint(w, renderReply(newMarkdownRenderer(GetTerminalWidth()-4), turn.Text, IsStdoutTTY()))
			})
		}),
	}
}

func (e *env) assistant(cmd *cobra.Command) (*assistant.Assistant, error) {
	errOut := cmd.ErrOrStderr()
	store, err := e.records(errOut)
	if err != nil {
		return nil, err
	}
	svc, err := e.service(cmd.Context(), errOut)
	if err != nil {
		return nil, err
	}
	return assistant.New(svc, store,
		assistant.WithRateLimit(e.cfg.AI.RequestsPerMinute),
		assistant.WithLogger(e.logger)), nil
}
