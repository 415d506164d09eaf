// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package share builds messaging deep links and opens them.
//
// Links target WhatsApp's wa.me click-to-chat endpoint with a pre-filled
// message body. Opening a link is a capability behind the Opener interface:
// the default opens the system browser and falls back to copying the link
// to the clipboard when no browser can be launched.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// =============================================================================
// DEEP LINKS
// =============================================================================

// DefaultRecipient is the delegate's WhatsApp number in international form.
const DefaultRecipient = "967772328164"

// BaseURL is the click-to-chat endpoint.
const BaseURL = "https://wa.me/"

// encodeURIComponent leaves these unescaped; url.QueryEscape does not.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Encode percent-encodes text as a URI component: UTF-8 bytes outside the
// unreserved set are escaped and spaces become %20, never '+'.
func Encode(text string) string {
	return componentUnescaper.Replace(url.QueryEscape(text))
}

// Link returns the deep link that opens a chat with recipient and text pre-filled.
func Link(recipient, text string) string {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return BaseURL + recipient + "?text=" + Encode(text)
}

// =============================================================================
// OPENERS
// =============================================================================

// Opener opens a URL or file in a new browsing context.
type Opener interface {
	Open(target string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(target string) error

// Open implements Opener.
func (f OpenerFunc) Open(target string) error { return f(target) }

// ErrUnsupportedPlatform is returned when no browser launcher is known.
var ErrUnsupportedPlatform = errors.New("share: no browser launcher for this platform")

// BrowserOpener launches the platform's default handler for target.
type BrowserOpener struct {
	// GOOS overrides runtime.GOOS. Empty means the running platform.
	GOOS string
}

// Open implements Opener. It returns once the launcher has started.
func (b BrowserOpener) Open(target string) error {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	cmd, err := launchCommand(goos, target)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("share: launch %s: %w", cmd.Path, err)
	}
	// Reap the launcher so it does not linger as a zombie
	go cmd.Wait() //nolint:errcheck
	return nil
}

func launchCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		// Quoted empty title, target last
		return exec.Command("cmd", "/c", "start", `""`, target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// ClipboardOpener copies target to the system clipboard instead of opening it.
type ClipboardOpener struct{}

// Open implements Opener.
func (ClipboardOpener) Open(target string) error {
	if clipboard.Unsupported {
		return errors.New("share: clipboard unavailable")
	}
	if err := clipboard.WriteAll(target); err != nil {
		return fmt.Errorf("share: copy to clipboard: %w", err)
	}
	return nil
}

// FallbackOpener tries each opener in order and stops at the first success.
type FallbackOpener []Opener

// Open implements Opener. When every opener fails the errors are joined.
func (f FallbackOpener) Open(target string) error {
	var errs []error
	for _, o := range f {
		err := o.Open(target)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errors.New("share: no opener configured")
	}
	return errors.Join(errs...)
}

// DefaultOpener opens in the browser and falls back to the clipboard.
func DefaultOpener() Opener {
	return FallbackOpener{BrowserOpener{}, ClipboardOpener{}}
}
