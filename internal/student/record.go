// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package student

import (
	"encoding/json"
	"strings"
	"time"
)

// =============================================================================
// DRAFT
// =============================================================================

// Draft holds the user-supplied fields of a record.
type Draft struct {
	FullName      string `json:"fullName" yaml:"fullName" validate:"notblank"`
	Village       string `json:"village" yaml:"village" validate:"village"`
	University    string `json:"university" yaml:"university" validate:"notblank"`
	College       string `json:"college" yaml:"college" validate:"notblank"`
	Major         string `json:"major" yaml:"major" validate:"notblank"`
	AcademicLevel string `json:"academicLevel" yaml:"academicLevel" validate:"notblank"`
	StudyLocation string `json:"studyLocation" yaml:"studyLocation" validate:"studylocation"`
}

// NewDraft returns an empty draft with the enumerated fields set to their defaults.
func NewDraft() Draft {
	return Draft{
		Village:       DefaultVillage(),
		StudyLocation: DefaultStudyLocation(),
	}
}

// Get returns the value of the field with the given key.
func (d Draft) Get(field string) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldVillage:
		return d.Village
	case FieldUniversity:
		return d.University
	case FieldCollege:
		return d.College
	case FieldMajor:
		return d.Major
	case FieldAcademicLevel:
		return d.AcademicLevel
	case FieldStudyLocation:
		return d.StudyLocation
	}
	return ""
}

// Set assigns the field with the given key. Unknown keys are ignored.
func (d *Draft) Set(field, value string) {
	switch field {
	case FieldFullName:
		d.FullName = value
	case FieldVillage:
		d.Village = value
	case FieldUniversity:
		d.University = value
	case FieldCollege:
		d.College = value
	case FieldMajor:
		d.Major = value
	case FieldAcademicLevel:
		d.AcademicLevel = value
	case FieldStudyLocation:
		d.StudyLocation = value
	}
}

// Canonical returns a copy with only the enumerated fields mapped onto
// their canonical spelling. Free-text fields are kept exactly as typed.
func (d Draft) Canonical() Draft {
	if v, ok := NormalizeVillage(d.Village); ok {
		d.Village = v
	}
	if l, ok := NormalizeStudyLocation(d.StudyLocation); ok {
		d.StudyLocation = l
	}
	return d
}

// Normalized returns a copy with whitespace cleaned up and the enumerated
// fields folded onto their canonical spelling when a match exists.
// Values without a match are kept so validation can report them.
func (d Draft) Normalized() Draft {
	out := Draft{
		FullName:      Clean(d.FullName),
		University:    Clean(d.University),
		College:       Clean(d.College),
		Major:         Clean(d.Major),
		AcademicLevel: Clean(d.AcademicLevel),
	}
	if v, ok := NormalizeVillage(d.Village); ok {
		out.Village = v
	} else {
		out.Village = Clean(d.Village)
	}
	if l, ok := NormalizeStudyLocation(d.StudyLocation); ok {
		out.StudyLocation = l
	} else {
		out.StudyLocation = Clean(d.StudyLocation)
	}
	return out
}

// =============================================================================
// RECORD
// =============================================================================

// Record is a registered student. ID and CreatedAt are fixed at creation.
type Record struct {
	ID            string    `json:"id" yaml:"id"`
	FullName      string    `json:"fullName" yaml:"fullName"`
	Village       string    `json:"village" yaml:"village"`
	University    string    `json:"university" yaml:"university"`
	College       string    `json:"college" yaml:"college"`
	Major         string    `json:"major" yaml:"major"`
	AcademicLevel string    `json:"academicLevel" yaml:"academicLevel"`
	StudyLocation string    `json:"studyLocation" yaml:"studyLocation"`
	CreatedAt     time.Time `json:"-" yaml:"createdAt"`
}

// NewRecord builds a record from a draft. The timestamp is kept at
// millisecond precision, which is what the persisted form carries.
func NewRecord(d Draft, id string, at time.Time) Record {
	return Record{
		ID:            id,
		FullName:      d.FullName,
		Village:       d.Village,
		University:    d.University,
		College:       d.College,
		Major:         d.Major,
		AcademicLevel: d.AcademicLevel,
		StudyLocation: d.StudyLocation,
		CreatedAt:     time.UnixMilli(at.UnixMilli()),
	}
}

// Draft returns the user-supplied fields of the record.
func (r Record) Draft() Draft {
	return Draft{
		FullName:      r.FullName,
		Village:       r.Village,
		University:    r.University,
		College:       r.College,
		Major:         r.Major,
		AcademicLevel: r.AcademicLevel,
		StudyLocation: r.StudyLocation,
	}
}

// Matches reports whether term is a case-sensitive substring of the full
// name, village or major. The empty term matches every record.
func (r Record) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(r.FullName, term) ||
		strings.Contains(r.Village, term) ||
		strings.Contains(r.Major, term)
}

// Filter returns the records matching term, preserving order.
// The input slice is not modified.
func Filter(records []Record, term string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Matches(term) {
			out = append(out, r)
		}
	}
	return out
}

// recordJSON mirrors the persisted layout: createdAt is Unix milliseconds.
type recordJSON struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Village       string `json:"village"`
	University    string `json:"university"`
	College       string `json:"college"`
	Major         string `json:"major"`
	AcademicLevel string `json:"academicLevel"`
	StudyLocation string `json:"studyLocation"`
	CreatedAt     int64  `json:"createdAt"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:            r.ID,
		FullName:      r.FullName,
		Village:       r.Village,
		University:    r.University,
		College:       r.College,
		Major:         r.Major,
		AcademicLevel: r.AcademicLevel,
		StudyLocation: r.StudyLocation,
		CreatedAt:     r.CreatedAt.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		ID:            raw.ID,
		FullName:      raw.FullName,
		Village:       raw.Village,
		University:    raw.University,
		College:       raw.College,
		Major:         raw.Major,
		AcademicLevel: raw.AcademicLevel,
		StudyLocation: raw.StudyLocation,
		CreatedAt:     time.UnixMilli(raw.CreatedAt),
	}
	return nil
}
