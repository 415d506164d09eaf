// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode assistant conversation.
//
// On a terminal the prompt has editing and a history file kept in the
// config directory. Piped stdin is read line by line.
//
// Commands:
//
//	/help          Show commands
//	/exit, /quit   Leave the chat

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/config"
	"github.com/jeranaias/shuaib-registry/internal/ui/app"
)

// HistoryFileName is the chat history file inside the config directory.
const HistoryFileName = "chat_history"

const chatPrompt = "> "

// lineReader reads one line of user input.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// terminalReader wraps liner and persists history.
type terminalReader struct {
	line        *liner.State
	historyFile string
	logger      *zap.Logger
}

func newTerminalReader(logger *zap.Logger) *terminalReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &terminalReader{line: line, logger: logger}
	if dir, err := config.ConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, HistoryFileName)
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *terminalReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *terminalReader) Close() error {
	defer r.line.Close()
	if r.historyFile == "" {
		return nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		r.logger.Warn("save chat history", zap.Error(err))
		return err
	}
	defer f.Close()
	_, err = r.line.WriteHistory(f)
	return err
}

// streamReader reads piped input without echoing a prompt.
type streamReader struct {
	scanner *bufio.Scanner
}

func (r *streamReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *streamReader) Close() error { return nil }

func newChatCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the AI assistant line by line",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			if e.opts.JSON {
				return errors.New("chat has no JSON mode; use ask")
			}
			a, err := e.assistant(cmd)
			if err != nil {
				return err
			}

			var in lineReader
			if e.deps.IsTerminal() {
				in = newTerminalReader(e.logger)
			} else {
				in = &streamReader{scanner: bufio.NewScanner(cmd.InOrStdin())}
			}
			defer in.Close()

			return chatLoop(cmd.Context(), cmd.OutOrStdout(), in, a, IsStdoutTTY())
		}),
	}
}

func chatLoop(ctx context.Context, w io.Writer, in lineReader, a *assistant.Assistant, tty bool) error {
	renderer := newMarkdownRenderer(GetTerminalWidth() - 4)

	fmt.Fprintln(w, RenderConditional(TitleStyle, assistant.Title))
	fmt.Fprint(w, renderReply(renderer, assistant.Greeting, tty))
	fmt.Fprintln(w, RenderConditional(DimStyle, "/help  /exit"))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		input, err := in.Prompt(chatPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "/exit", "/quit", "/q", "exit", "quit":
			return nil
		case "/help", "/?":
			fmt.Fprintln(w, "/help          "+RenderConditional(DimStyle, "show commands"))
			fmt.Fprintln(w, "/exit, /quit   "+RenderConditional(DimStyle, "leave the chat"))
			continue
		}

		fmt.Fprintln(w, RenderConditional(DimStyle, assistant.Thinking))
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		turn, err := a.Send(reqCtx, input)
		cancel()
		switch {
		case errors.Is(err, assistant.ErrRateLimited):
			fmt.Fprintln(w, RenderConditional(WarningStyle, app.RateLimitText))
			continue
		case err != nil:
			fmt.Fprintln(w, RenderConditional(ErrorStyle, err.Error()))
			continue
		}
		fmt.Fprint(w, renderReply(renderer, turn.Text, tty))
	}
}
