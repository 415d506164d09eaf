// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package share

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii word", "hello", "hello"},
		{"space", "a b", "a%20b"},
		{"newline", "a\nb", "a%0Ab"},
		{"component marks kept", "!'()*-._~", "!'()*-._~"},
		{"reserved escaped", "a&b=c?d/e+f#g", "a%26b%3Dc%3Fd%2Fe%2Bf%23g"},
		{"arabic", "علي", "%D8%B9%D9%84%D9%8A"},
		{"emoji", "👤", "%F0%9F%91%A4"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in))
		})
	}
}

func TestEncode_RoundTrips(t *testing.T) {
	msg := "🏢 مكتب مندوب العوابل\n\n👤 اسم الطالب: محمد منصور علي\n🏠 القرية: فقع (100%)"
	decoded, err := url.PathUnescape(Encode(msg))
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestLink(t *testing.T) {
	link := Link("967772328164", "مرحبا بك")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/967772328164?text="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%20")

	assert.Equal(t, Link(DefaultRecipient, "x"), Link("", "x"))
}

func TestLaunchCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "https://wa.me/1"}},
		{"darwin", []string{"open", "https://wa.me/1"}},
		{"windows", []string{"cmd", "/c", "start", `""`, "https://wa.me/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := launchCommand(tt.goos, "https://wa.me/1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Args)
		})
	}

	_, err := launchCommand("plan9", "x")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestFallbackOpener(t *testing.T) {
	var opened []string
	fail := OpenerFunc(func(string) error { return errors.New("no browser") })
	record := OpenerFunc(func(target string) error {
		opened = append(opened, target)
		return nil
	})

	require.NoError(t, FallbackOpener{fail, record}.Open("t1"))
	assert.Equal(t, []string{"t1"}, opened)

	err := FallbackOpener{fail, fail}.Open("t2")
	assert.ErrorContains(t, err, "no browser")

	assert.Error(t, FallbackOpener{}.Open("t3"))
}
