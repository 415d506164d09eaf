// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/shuaib-registry/internal/gemini"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

// Texts shown by the assistant panel.
const (
	Title       = "المعالج الذكي AI"
	Status      = "النظام نشط"
	Placeholder = "مثال: سجل الطالب محمد منصور، قرية غالظ، جامعة عدن كلية الطب..."
	Thinking    = "جاري تحليل البيانات..."

	Greeting = "مرحباً بك. أنا المساعد الإداري الذكي لمكتب الأستاذ مهدي علي مهدي. \n\n" +
		"يمكنك ببساطة لصق بيانات الطلاب هنا بشكل نصي وسأقوم بتحليلها وإضافتها للسجل تلقائياً!"

	// GenericFailure ends a request whose fallback call failed.
	GenericFailure = "عذراً، حدث خطأ في معالجة طلبك."

	// EmptyReplyFailure ends a request whose fallback call returned no text.
	EmptyReplyFailure = "عذراً، واجهت مشكلة في معالجة الطلب."
)

// Roles of transcript turns.
const (
	RoleUser  = gemini.RoleUser
	RoleModel = gemini.RoleModel
)

var (
	// ErrEmptyInput is returned for blank messages.
	ErrEmptyInput = errors.New("assistant: empty message")

	// ErrBusy is returned while a request is outstanding.
	ErrBusy = errors.New("assistant: a request is already in progress")

	// ErrRateLimited is returned when the configured request rate is exceeded.
	ErrRateLimited = errors.New("assistant: too many requests, try again shortly")
)

// Turn is one entry of the transcript.
type Turn struct {
	Role string
	Text string
	At   time.Time
}

// Recorder stores a validated draft as a new record.
type Recorder interface {
	Add(d student.Draft) (student.Record, error)
}

// =============================================================================
// ASSISTANT
// =============================================================================

// Assistant holds the transcript and drives requests. It is safe for
// concurrent use: Resolve typically runs on a background goroutine while
// the UI reads the transcript.
type Assistant struct {
	svc     gemini.Service
	store   Recorder
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time

	mu    sync.Mutex
	turns []Turn
	busy  bool
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRateLimit caps requests per minute. Zero or less disables the cap.
func WithRateLimit(perMinute int) Option {
	return func(a *Assistant) {
		if perMinute > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
		}
	}
}

// WithClock overrides turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// New creates an assistant whose transcript starts with the greeting.
func New(svc gemini.Service, store Recorder, opts ...Option) *Assistant {
	a := &Assistant{
		svc:    svc,
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.turns = []Turn{{Role: RoleModel, Text: Greeting, At: a.now()}}
	return a
}

// Transcript returns a copy of the turns in order.
func (a *Assistant) Transcript() []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Turn(nil), a.turns...)
}

// Busy reports whether a request is outstanding.
func (a *Assistant) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Begin validates text, appends it as a user turn and marks the assistant
// busy. It returns the trimmed message to pass to Resolve.
func (a *Assistant) Begin(text string) (string, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return "", ErrEmptyInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return "", ErrBusy
	}
	if a.limiter != nil && !a.limiter.Allow() {
		return "", ErrRateLimited
	}
	a.turns = append(a.turns, Turn{Role: RoleUser, Text: msg, At: a.now()})
	a.busy = true
	return msg, nil
}

// Resolve performs the request for msg, appends the reply turn, clears the
// busy flag and returns the reply.
func (a *Assistant) Resolve(ctx context.Context, msg string) Turn {
	reply := a.respond(ctx, msg)

	a.mu.Lock()
	defer a.mu.Unlock()
	turn := Turn{Role: RoleModel, Text: reply, At: a.now()}
	a.turns = append(a.turns, turn)
	a.busy = false
	return turn
}

// Send is Begin followed by Resolve.
func (a *Assistant) Send(ctx context.Context, text string) (Turn, error) {
	msg, err := a.Begin(text)
	if err != nil {
		return Turn{}, err
	}
	return a.Resolve(ctx, msg), nil
}

// =============================================================================
// RESPONSE INTERPRETATION
// =============================================================================

func (a *Assistant) respond(ctx context.Context, msg string) string {
	ex, err := a.svc.Extract(ctx, msg)
	if err != nil {
		a.logger.Info("extraction failed, falling back to conversation", zap.Error(err))
		return a.converse(ctx)
	}

	if !ex.IsComplete {
		missing := ex.MissingFields
		if len(missing) == 0 {
			missing = blankFields(ex.Draft())
		}
		return incompleteText(missing)
	}

	d := ex.Draft().Normalized()
	if err := d.Validate(); err != nil {
		var verrs student.ValidationErrors
		if !errors.As(err, &verrs) {
			a.logger.Error("unexpected validation error", zap.Error(err))
			return GenericFailure
		}
		if rejected := notAllowed(verrs); len(rejected) > 0 {
			a.logger.Info("extraction outside closed sets", zap.Strings("fields", rejected))
			return rejectedText(d, rejected)
		}
		// Flagged complete but required values are blank
		return incompleteText(verrs.Fields())
	}

	rec, err := a.store.Add(d)
	if err != nil {
		a.logger.Error("failed to store extracted record", zap.Error(err))
		return GenericFailure
	}
	a.logger.Info("record added from assistant", zap.String("id", rec.ID))
	return confirmationText(rec)
}

func (a *Assistant) converse(ctx context.Context) string {
	history := a.history()
	reply, err := a.svc.Reply(ctx, history)
	if err != nil {
		a.logger.Warn("conversation fallback failed", zap.Error(err))
		return GenericFailure
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReplyFailure
	}
	return reply
}

// history converts the transcript, including the pending user turn.
func (a *Assistant) history() []gemini.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]gemini.Message, 0, len(a.turns))
	for _, t := range a.turns {
		out = append(out, gemini.Message{Role: t.Role, Text: t.Text})
	}
	return out
}

func blankFields(d student.Draft) []string {
	var out []string
	for _, f := range student.Fields {
		if strings.TrimSpace(d.Get(f)) == "" {
			out = append(out, f)
		}
	}
	return out
}

func notAllowed(verrs student.ValidationErrors) []string {
	var out []string
	for _, fe := range verrs {
		if fe.Reason == student.ReasonNotAllowed {
			out = append(out, fe.Field)
		}
	}
	return out
}
