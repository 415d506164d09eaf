// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/shuaib-registry/internal/gemini"
	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/storage"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

func TestMain(m *testing.M) {
	// genai links in opencensus, whose stats worker starts at package init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// =============================================================================
// FAKE SERVICE
// =============================================================================

type fakeService struct {
	mu sync.Mutex

	extraction gemini.Extraction
	extractErr error
	reply      string
	replyErr   error

	// block, when set, holds Extract until closed
	block chan struct{}

	extractCalls int
	history      []gemini.Message
}

func (f *fakeService) Extract(ctx context.Context, text string) (gemini.Extraction, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractCalls++
	return f.extraction, f.extractErr
}

func (f *fakeService) Reply(ctx context.Context, history []gemini.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append([]gemini.Message(nil), history...)
	return f.reply, f.replyErr
}

func completeExtraction() gemini.Extraction {
	return gemini.Extraction{
		FullName:      "محمد منصور علي",
		Village:       "غالظ",
		University:    "جامعة عدن",
		College:       "الطب",
		Major:         "طب بشري",
		AcademicLevel: "المستوى الثاني",
		StudyLocation: "عدن",
		IsComplete:    true,
	}
}

func setup(svc gemini.Service, opts ...Option) (*Assistant, *storage.Store) {
	store := storage.Open(kv.NewMemoryStorage())
	return New(svc, store, opts...), store
}

func last(a *Assistant) Turn {
	tr := a.Transcript()
	return tr[len(tr)-1]
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func TestNew_StartsWithGreeting(t *testing.T) {
	a, _ := setup(&fakeService{})
	tr := a.Transcript()
	require.Len(t, tr, 1)
	assert.Equal(t, RoleModel, tr[0].Role)
	assert.Equal(t, Greeting, tr[0].Text)
	assert.False(t, a.Busy())
}

func TestSend_RejectsBlankInput(t *testing.T) {
	svc := &fakeService{}
	a, _ := setup(svc)

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := a.Send(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Len(t, a.Transcript(), 1)
	assert.Zero(t, svc.extractCalls)
}

// =============================================================================
// OUTCOMES
// =============================================================================

func TestSend_CompleteAddsRecord(t *testing.T) {
	a, store := setup(&fakeService{extraction: completeExtraction()})

	turn, err := a.Send(context.Background(), "  سجل الطالب محمد منصور علي من غالظ  ")
	require.NoError(t, err)

	tr := a.Transcript()
	require.Len(t, tr, 3)
	assert.Equal(t, Turn{Role: RoleUser, Text: "سجل الطالب محمد منصور علي من غالظ", At: tr[1].At}, tr[1])
	assert.Equal(t, turn, tr[2])

	require.Equal(t, 1, store.Len())
	rec := store.Records()[0]
	assert.Equal(t, "غالظ", rec.Village)

	want := "✅ ممتاز! تم معالجة البيانات بنجاح:\n\n👤 الاسم: محمد منصور علي\n📍 القرية: غالظ\n🎓 التخصص: طب بشري\n\nتمت الإضافة إلى لوحة التحكم بنجاح."
	assert.Equal(t, want, turn.Text)
	assert.False(t, a.Busy())
}

func TestSend_CompleteNormalizesSpelling(t *testing.T) {
	ex := completeExtraction()
	ex.StudyLocation = "ضالع"
	a, store := setup(&fakeService{extraction: ex})

	_, err := a.Send(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, student.LocationDhale, store.Records()[0].StudyLocation)
}

func TestSend_CompleteOutsideClosedSetIsRejected(t *testing.T) {
	ex := completeExtraction()
	ex.Village = "صنعاء"
	a, store := setup(&fakeService{extraction: ex})

	turn, err := a.Send(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, 0, store.Len())
	assert.Contains(t, turn.Text, "القرية (village): صنعاء")
	assert.Contains(t, turn.Text, "دار الصنيف")
	assert.NotContains(t, turn.Text, "مكان الدراسة (studyLocation)")
}

func TestSend_CompleteFlagWithBlankFields(t *testing.T) {
	ex := completeExtraction()
	ex.College = ""
	a, store := setup(&fakeService{extraction: ex})

	turn, err := a.Send(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, turn.Text, "• الكلية (college)")
}

func TestSend_IncompleteListsMissingFields(t *testing.T) {
	svc := &fakeService{extraction: gemini.Extraction{
		FullName:      "سارة",
		IsComplete:    false,
		MissingFields: []string{"university", "major", "phone"},
	}}
	a, store := setup(svc)

	turn, err := a.Send(context.Background(), "سارة")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	want := "البيانات التي قدمتها غير مكتملة، أحتاج لبعض الحقول الإضافية: \n\n" +
		"• الجامعة (university)\n• التخصص (major)\n• phone"
	assert.Equal(t, want, turn.Text)
}

func TestSend_IncompleteWithoutListDerivesBlanks(t *testing.T) {
	ex := completeExtraction()
	ex.IsComplete = false
	ex.Major = ""
	a, _ := setup(&fakeService{extraction: ex})

	turn, err := a.Send(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(turn.Text, "• التخصص (major)"))
}

func TestSend_ExtractionFailureFallsBackToConversation(t *testing.T) {
	svc := &fakeService{extractErr: gemini.ErrMalformed, reply: "أهلاً، كيف أساعدك؟"}
	a, store := setup(svc)

	turn, err := a.Send(context.Background(), "من أنت؟")
	require.NoError(t, err)
	assert.Equal(t, "أهلاً، كيف أساعدك؟", turn.Text)
	assert.Equal(t, 0, store.Len())

	// Full transcript including the pending user turn
	require.Len(t, svc.history, 2)
	assert.Equal(t, gemini.Message{Role: RoleModel, Text: Greeting}, svc.history[0])
	assert.Equal(t, gemini.Message{Role: RoleUser, Text: "من أنت؟"}, svc.history[1])
}

func TestSend_BothCallsFail(t *testing.T) {
	svc := &fakeService{extractErr: errors.New("network"), replyErr: errors.New("network")}
	a, _ := setup(svc)

	turn, err := a.Send(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, GenericFailure, turn.Text)
	assert.False(t, a.Busy())
}

func TestSend_EmptyFallbackReply(t *testing.T) {
	a, _ := setup(&fakeService{extractErr: errors.New("bad"), reply: "  "})
	turn, err := a.Send(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, EmptyReplyFailure, turn.Text)
}

func TestSend_UnavailableService(t *testing.T) {
	a, store := setup(gemini.Unavailable{})

	turn, err := a.Send(context.Background(), "سجل الطالب")
	require.NoError(t, err)
	assert.Equal(t, GenericFailure, turn.Text)
	assert.Equal(t, 0, store.Len())
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestBegin_RejectsWhileBusy(t *testing.T) {
	svc := &fakeService{extraction: completeExtraction(), block: make(chan struct{})}
	a, store := setup(svc)

	msg, err := a.Begin("first")
	require.NoError(t, err)
	assert.True(t, a.Busy())

	done := make(chan Turn)
	go func() { done <- a.Resolve(context.Background(), msg) }()

	_, err = a.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)

	close(svc.block)
	<-done

	assert.False(t, a.Busy())
	assert.Equal(t, 1, store.Len())
	assert.Len(t, a.Transcript(), 3, "greeting, first, reply")

	_, err = a.Send(context.Background(), "third")
	assert.NoError(t, err)
}

func TestTranscript_ConcurrentReads(t *testing.T) {
	a, _ := setup(&fakeService{extractErr: errors.New("x"), reply: "ok"})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = a.Send(context.Background(), "hi")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = a.Transcript()
			_ = a.Busy()
		}
	}()
	wg.Wait()

	assert.Len(t, a.Transcript(), 41)
}

// =============================================================================
// RATE LIMIT
// =============================================================================

func TestWithRateLimit(t *testing.T) {
	a, _ := setup(&fakeService{extractErr: errors.New("x"), reply: "ok"}, WithRateLimit(2))

	_, err := a.Send(context.Background(), "1")
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "2")
	require.NoError(t, err)
	_, err = a.Send(context.Background(), "3")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, a.Busy())
	assert.Len(t, a.Transcript(), 5)
}
