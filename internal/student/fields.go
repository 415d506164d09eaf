// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package student

// Field keys, matching the JSON names of Draft.
const (
	FieldFullName      = "fullName"
	FieldVillage       = "village"
	FieldUniversity    = "university"
	FieldCollege       = "college"
	FieldMajor         = "major"
	FieldAcademicLevel = "academicLevel"
	FieldStudyLocation = "studyLocation"
)

// Fields lists the draft field keys in form order.
var Fields = []string{
	FieldFullName,
	FieldVillage,
	FieldUniversity,
	FieldCollege,
	FieldMajor,
	FieldAcademicLevel,
	FieldStudyLocation,
}

var labels = map[string]string{
	FieldFullName:      "الاسم الرباعي",
	FieldVillage:       "القرية",
	FieldUniversity:    "الجامعة",
	FieldCollege:       "الكلية",
	FieldMajor:         "التخصص",
	FieldAcademicLevel: "المستوى الدراسي",
	FieldStudyLocation: "مكان الدراسة",
}

// Label returns the Arabic display label for a field key, or the key itself
// when it is unknown (the AI service may report free-form names).
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// IsEnumerated reports whether the field only accepts members of a closed set.
func IsEnumerated(field string) bool {
	return field == FieldVillage || field == FieldStudyLocation
}

// =============================================================================
// CLOSED SETS
// =============================================================================

var villages = []string{
	"المجزرة",
	"ذي سكينة",
	"غالظ",
	"الصافا",
	"حوادد",
	"دار الصنيف",
	"النجد",
	"السواد",
	"فقع",
	"زنجي",
}

// Study locations.
const (
	LocationShuaib = "داخل الشعيب"
	LocationDhale  = "الضالع"
	LocationAden   = "عدن"
	LocationAbroad = "خارج الوطن"
)

var studyLocations = []string{
	LocationShuaib,
	LocationDhale,
	LocationAden,
	LocationAbroad,
}

// Villages returns the approved village list.
func Villages() []string {
	return append([]string(nil), villages...)
}

// StudyLocations returns the four study locations.
func StudyLocations() []string {
	return append([]string(nil), studyLocations...)
}

// DefaultVillage is the first approved village.
func DefaultVillage() string { return villages[0] }

// DefaultStudyLocation is the first study location.
func DefaultStudyLocation() string { return studyLocations[0] }

// IsVillage reports exact membership in the approved village list.
func IsVillage(s string) bool { return contains(villages, s) }

// IsStudyLocation reports exact membership in the study location set.
func IsStudyLocation(s string) bool { return contains(studyLocations, s) }

// Allowed returns the members of the closed set behind an enumerated field.
func Allowed(field string) []string {
	switch field {
	case FieldVillage:
		return Villages()
	case FieldStudyLocation:
		return StudyLocations()
	}
	return nil
}

// Next cycles through a closed set, wrapping around. Unknown values start
// from the first member.
func Next(set []string, current string, step int) string {
	if len(set) == 0 {
		return current
	}
	idx := -1
	for i, v := range set {
		if v == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return set[0]
	}
	n := len(set)
	return set[((idx+step)%n+n)%n]
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
