// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/shuaib-registry/internal/assistant"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

// RecordsChangedMsg carries the store snapshot after a mutation.
type RecordsChangedMsg struct {
	Records []student.Record
}

// SuccessExpiredMsg hides the form's success indicator for submission Seq.
type SuccessExpiredMsg struct {
	Seq int
}

// AssistantReplyMsg delivers the reply to an outstanding assistant request.
type AssistantReplyMsg struct {
	Turn assistant.Turn
}

// confirmAction is the destructive action awaiting a y/n answer.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmClear
)
