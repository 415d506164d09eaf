// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package student defines the registry's data model.
//
// A Record is one student's registration entry. A Draft carries the seven
// user-supplied fields before the store assigns an ID and creation time.
//
// # Closed Sets
//
// Village and StudyLocation only accept members of fixed lists:
//
//   - Villages: the approved village list, first entry is the form default
//   - StudyLocations: the four places a student can currently study
//
// # Validation
//
// Draft.Validate reports every offending field as a ValidationErrors list
// keyed by the JSON field name, so callers can show localized labels:
//
//	if err := draft.Validate(); err != nil {
//	    var verrs student.ValidationErrors
//	    if errors.As(err, &verrs) {
//	        for _, fe := range verrs {
//	            fmt.Println(student.Label(fe.Field))
//	        }
//	    }
//	}
//
// Draft.Canonical folds spelling variants of the enumerated fields onto their
// canonical members and leaves free text untouched; the record store applies
// it on every insert. Draft.Normalized additionally tidies whitespace and is
// used for AI-extracted drafts only.
package student
