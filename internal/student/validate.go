// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package student

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Reasons attached to field errors.
const (
	ReasonRequired   = "required"
	ReasonNotAllowed = "not an allowed value"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors is the list of invalid fields of a draft, in form order.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return "invalid record: " + strings.Join(msgs, "; ")
}

// Fields returns the keys of the invalid fields.
func (e ValidationErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Field)
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so errors line up with Field* keys
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "village", func(fl validator.FieldLevel) bool {
		return IsVillage(fl.Field().String())
	})
	mustRegister(v, "studylocation", func(fl validator.FieldLevel) bool {
		return IsStudyLocation(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("student: register validation " + tag + ": " + err.Error())
	}
}

// Validate checks required fields and closed-set membership.
// It returns ValidationErrors when any field is invalid.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		reason := ReasonRequired
		if fe.Tag() == "village" || fe.Tag() == "studylocation" {
			reason = ReasonNotAllowed
		}
		out = append(out, FieldError{Field: fe.Field(), Reason: reason})
	}
	return out
}
