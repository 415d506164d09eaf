// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package student

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean folds s to NFC, trims it and collapses runs of whitespace.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Alternate spellings seen in free text, keyed by fold().
var locationAliases = map[string]string{
	fold("الشعيب"):      LocationShuaib,
	fold("في الشعيب"):   LocationShuaib,
	fold("داخل المديرية"): LocationShuaib,
	fold("shuaib"):      LocationShuaib,
	fold("dhale"):       LocationDhale,
	fold("dhalea"):      LocationDhale,
	fold("aden"):        LocationAden,
	fold("خارج اليمن"):  LocationAbroad,
	fold("خارج البلاد"): LocationAbroad,
	fold("الخارج"):      LocationAbroad,
	fold("abroad"):      LocationAbroad,
}

// NormalizeVillage maps s onto an approved village. It tolerates spelling
// variants (hamza forms, alef maqsura, ta marbuta, tatweel) and a missing or
// extra definite article. ok is false when nothing matches.
func NormalizeVillage(s string) (string, bool) {
	return match(villages, nil, s)
}

// NormalizeStudyLocation maps s onto one of the four study locations.
func NormalizeStudyLocation(s string) (string, bool) {
	return match(studyLocations, locationAliases, s)
}

func match(set []string, aliases map[string]string, s string) (string, bool) {
	cleaned := Clean(s)
	if cleaned == "" {
		return "", false
	}
	if contains(set, cleaned) {
		return cleaned, true
	}

	key := fold(cleaned)
	for _, v := range set {
		fv := fold(v)
		if fv == key || fv == "ال"+key || "ال"+fv == key {
			return v, true
		}
	}
	if v, ok := aliases[key]; ok {
		return v, true
	}
	return "", false
}

// fold builds a comparison key: NFC, lower case, no tatweel, unified letter
// variants, single spaces.
func fold(s string) string {
	s = strings.ToLower(Clean(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ـ':
			return -1
		case 'أ', 'إ', 'آ':
			return 'ا'
		case 'ى':
			return 'ي'
		case 'ة':
			return 'ه'
		}
		return r
	}, s)
}
