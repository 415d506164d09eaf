// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package form implements the student registration form: bound fields,
// submission into the record store and the WhatsApp hand-off to the delegate.
package form

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/share"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

// SuccessDuration is how long the success indicator stays visible.
const SuccessDuration = 3 * time.Second

// Texts shown by the form.
const (
	Heading     = "تسجيل بيانات جديد"
	Subheading  = "سيتم تخزين بياناتك محلياً وإرسالها للمندوب مباشرة"
	SuccessText = "🚀 تم حفظ بياناتك بنجاح وجاري تحويلك للواتساب"
)

var labels = map[string]string{
	student.FieldFullName:      "الاسم الرباعي الكامل",
	student.FieldVillage:       "القرية السكنية",
	student.FieldUniversity:    "اسم الجامعة",
	student.FieldCollege:       "الكلية",
	student.FieldMajor:         "التخصص الدقيق",
	student.FieldAcademicLevel: "المستوى الدراسي الحالي",
	student.FieldStudyLocation: "مكان الدراسة الحالية",
}

var placeholders = map[string]string{
	student.FieldFullName:      "أدخل اسمك الرباعي كما في البطاقة الشخصية",
	student.FieldUniversity:    "مثال: جامعة عدن",
	student.FieldCollege:       "مثال: كلية الحقوق",
	student.FieldMajor:         "أدخل تخصصك الدراسي",
	student.FieldAcademicLevel: "سنة أولى، ثانية، خريج...",
}

// Label returns the form label of a field.
func Label(field string) string { return labels[field] }

// Placeholder returns the input hint of a free-text field.
func Placeholder(field string) string { return placeholders[field] }

// Recorder stores a validated draft as a new record.
type Recorder interface {
	Add(d student.Draft) (student.Record, error)
}

// =============================================================================
// FORM
// =============================================================================

// Form holds the bound field values between submissions.
// It is not safe for concurrent use; the UI event loop owns it.
type Form struct {
	store     Recorder
	opener    share.Opener
	recipient string
	logger    *zap.Logger

	draft   student.Draft
	success bool
	seq     int
}

// Option configures a Form.
type Option func(*Form)

// WithRecipient sets the WhatsApp number submissions are sent to.
func WithRecipient(number string) Option {
	return func(f *Form) { f.recipient = number }
}

// WithLogger sets the logger for opener failures.
func WithLogger(l *zap.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a form with default field values.
func New(store Recorder, opener share.Opener, opts ...Option) *Form {
	f := &Form{
		store:     store,
		opener:    opener,
		recipient: share.DefaultRecipient,
		logger:    zap.NewNop(),
		draft:     student.NewDraft(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Draft returns the current field values.
func (f *Form) Draft() student.Draft { return f.draft }

// Value returns the current value of one field.
func (f *Form) Value(field string) string { return f.draft.Get(field) }

// SetField assigns a field. Enumerated fields only accept members of
// their closed set, so the form can never hold an invalid village or
// study location.
func (f *Form) SetField(field, value string) error {
	if student.IsEnumerated(field) && !contains(student.Allowed(field), value) {
		return student.ValidationErrors{{Field: field, Reason: student.ReasonNotAllowed}}
	}
	f.draft.Set(field, value)
	return nil
}

// Cycle moves an enumerated field step positions through its set.
func (f *Form) Cycle(field string, step int) {
	if !student.IsEnumerated(field) {
		return
	}
	f.draft.Set(field, student.Next(student.Allowed(field), f.draft.Get(field), step))
}

// Reset restores the default field values.
func (f *Form) Reset() { f.draft = student.NewDraft() }

// =============================================================================
// SUBMIT
// =============================================================================

// Result describes a successful submission.
type Result struct {
	Record student.Record
	Link   string

	// OpenErr is set when the deep link could not be opened. The record
	// was still saved.
	OpenErr error

	// Seq identifies this submission's success indicator; pass it to
	// DismissSuccess after SuccessDuration.
	Seq int
}

// Submit validates the fields, adds the record, opens the delegate's chat
// with the summary message and resets the form. Validation failures return
// student.ValidationErrors and leave the fields untouched.
func (f *Form) Submit() (Result, error) {
	if err := f.draft.Validate(); err != nil {
		return Result{}, err
	}

	rec, err := f.store.Add(f.draft)
	if err != nil {
		return Result{}, fmt.Errorf("save record: %w", err)
	}

	res := Result{Record: rec, Link: share.Link(f.recipient, Message(rec.Draft()))}
	if f.opener != nil {
		if err := f.opener.Open(res.Link); err != nil {
			f.logger.Warn("could not open whatsapp link", zap.Error(err), zap.String("id", rec.ID))
			res.OpenErr = err
		}
	}

	f.Reset()
	f.seq++
	f.success = true
	res.Seq = f.seq
	return res, nil
}

// ShowingSuccess reports whether the success indicator is visible.
func (f *Form) ShowingSuccess() bool { return f.success }

// DismissSuccess hides the indicator raised by submission seq. A later
// submission keeps its own indicator visible for its full duration.
func (f *Form) DismissSuccess(seq int) {
	if seq == f.seq {
		f.success = false
	}
}

// Message renders the summary sent to the delegate after a submission.
func Message(d student.Draft) string {
	return "🏢 مكتب مندوب العوابل\n\n" +
		"👤 اسم الطالب: " + d.FullName + "\n" +
		"🏠 القرية: " + d.Village + "\n" +
		"🎓 التخصص: " + d.Major + "\n" +
		"🏫 الجامعة: " + d.University + "\n" +
		"📚 المستوى: " + d.AcademicLevel
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
