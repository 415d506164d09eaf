// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// ErrMalformed is returned when the structured reply cannot be interpreted.
var ErrMalformed = errors.New("gemini: malformed extraction")

// Extraction is the structured reply of Extract.
type Extraction struct {
	FullName      string   `json:"fullName"`
	Village       string   `json:"village"`
	University    string   `json:"university"`
	College       string   `json:"college"`
	Major         string   `json:"major"`
	AcademicLevel string   `json:"academicLevel"`
	StudyLocation string   `json:"studyLocation"`
	IsComplete    bool     `json:"isComplete"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Draft returns the extracted student fields.
func (e Extraction) Draft() student.Draft {
	return student.Draft{
		FullName:      e.FullName,
		Village:       e.Village,
		University:    e.University,
		College:       e.College,
		Major:         e.Major,
		AcademicLevel: e.AcademicLevel,
		StudyLocation: e.StudyLocation,
	}
}

// ParseExtraction decodes a structured reply. Surrounding whitespace and a
// Markdown code fence are tolerated. An empty body, anything other than a
// JSON object, or an object without a boolean isComplete is ErrMalformed.
func ParseExtraction(raw string) (Extraction, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return Extraction{}, fmt.Errorf("%w: empty reply", ErrMalformed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return Extraction{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	flag, ok := fields["isComplete"]
	if !ok {
		return Extraction{}, fmt.Errorf("%w: missing isComplete", ErrMalformed)
	}
	var complete bool
	if err := json.Unmarshal(flag, &complete); err != nil {
		return Extraction{}, fmt.Errorf("%w: isComplete is not a boolean", ErrMalformed)
	}

	var out Extraction
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// stripFence removes a ```json ... ``` wrapper if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string ("json") on the opening line
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
