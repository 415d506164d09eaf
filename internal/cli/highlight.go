// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// exportLanguages maps export file extensions to chroma lexer names.
// Plain-text exports are not highlighted.
var exportLanguages = map[string]string{
	".json": "json",
	".yaml": "yaml",
	".md":   "markdown",
	".html": "html",
}

// highlight colors an export for the terminal. It returns content unchanged
// for unknown extensions or when highlighting fails.
func highlight(content, ext, theme string) string {
	language, ok := exportLanguages[ext]
	if !ok {
		return content
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return content
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "monokai"
	if theme == "light" {
		styleName = "github"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
