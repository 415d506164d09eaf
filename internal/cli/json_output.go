// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json.
//
// Every command wraps its result in the same envelope so scripts can
// check success without parsing human text.

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// JSONResponse is the envelope written for every command in JSON mode.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`

	// Error is null on success.
	Error *string `json:"error"`

	// Timestamp is RFC3339 UTC.
	Timestamp string `json:"timestamp"`
	Command   string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful envelope.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed envelope.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the envelope as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// ListData is the payload of list.
type ListData struct {
	Total   int              `json:"total"`
	Search  string           `json:"search,omitempty"`
	Records []student.Record `json:"records"`
}

// AddData is the payload of add.
type AddData struct {
	Record student.Record `json:"record"`
	Link   string         `json:"link"`
	Opened bool           `json:"opened"`
}

// DeleteData is the payload of delete.
type DeleteData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ClearData is the payload of clear.
type ClearData struct {
	Cleared int `json:"cleared"`
}

// ExportData is the payload of export.
type ExportData struct {
	Format string `json:"format"`
	Path   string `json:"path,omitempty"`
	Link   string `json:"link,omitempty"`
}

// ImportData is the payload of import.
type ImportData struct {
	File      string `json:"file"`
	Added     int    `json:"added"`
	Duplicate int    `json:"duplicate"`
	Invalid   int    `json:"invalid"`
}

// AskData is the payload of ask.
type AskData struct {
	Prompt string `json:"prompt"`
	Reply  string `json:"reply"`
	Added  bool   `json:"added"`
}
