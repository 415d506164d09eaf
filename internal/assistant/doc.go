// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements the AI chat panel: a transcript of turns, a
// single outstanding request at a time, and interpretation of the model's
// structured extraction into new registry records.
//
// # Request Flow
//
// Send is split in two for event-loop callers. Begin validates the input,
// appends the user turn and marks the assistant busy without blocking.
// Resolve performs the remote calls and appends the reply:
//
//   - complete extraction: enumerated values are normalized and checked
//     against the closed sets; a valid draft is added to the store
//   - incomplete extraction: the missing fields are listed
//   - failed extraction: the whole transcript goes to the conversational
//     mode and its answer is appended, or a generic apology if that fails
//
// No request is cancelled, timed out or retried.
package assistant
