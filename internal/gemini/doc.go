// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini wraps the Google Gemini API for the registry assistant.
//
// Two calls are made against the same model and system instruction:
//
//   - Extract: structured mode. The reply is JSON constrained by a response
//     schema describing the student fields plus isComplete/missingFields.
//   - Reply: free conversation over the chat history, used as a fallback
//     when the input is not student data.
//
// # Key Types
//
//   - Service: interface the assistant depends on
//   - Client: Service backed by google.golang.org/genai
//   - Unavailable: Service that always fails, used when no API key is set
//   - Extraction: parsed structured reply
package gemini
