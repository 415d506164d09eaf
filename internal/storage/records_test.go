// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

// =============================================================================
// HELPERS
// =============================================================================

func draft(name string) student.Draft {
	return student.Draft{
		FullName:      name,
		Village:       "فقع",
		University:    "جامعة عدن",
		College:       "الطب",
		Major:         "طب بشري",
		AcademicLevel: "المستوى الثاني",
		StudyLocation: "عدن",
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
}

func newStore(t *testing.T, backend kv.Storage) *Store {
	t.Helper()
	return Open(backend, WithIDGenerator(sequentialIDs()), WithClock(fixedClock()))
}

func persisted(t *testing.T, backend kv.Storage) []student.Record {
	t.Helper()
	data, err := backend.Get(StorageKey)
	require.NoError(t, err)
	var out []student.Record
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// failingBackend fails writes after the first allowed ones.
type failingBackend struct {
	*kv.MemoryStorage
	failSet bool
	failGet error
}

func (f *failingBackend) Set(key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(key, value)
}

func (f *failingBackend) Get(key string) ([]byte, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.MemoryStorage.Get(key)
}

// =============================================================================
// LOAD
// =============================================================================

func TestOpen_AbsentDataIsEmpty(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())
	assert.Equal(t, 0, store.Len())
	assert.NotNil(t, store.Records())
}

func TestOpen_CorruptDataIsEmpty(t *testing.T) {
	backend := kv.NewMemoryStorage()
	require.NoError(t, backend.Set(StorageKey, []byte("{not json")))

	store := newStore(t, backend)
	assert.Equal(t, 0, store.Len())
}

func TestOpen_ReadErrorIsEmpty(t *testing.T) {
	backend := &failingBackend{MemoryStorage: kv.NewMemoryStorage(), failGet: errors.New("permission denied")}
	store := newStore(t, backend)
	assert.Equal(t, 0, store.Len())
}

func TestOpen_LoadsBrowserData(t *testing.T) {
	backend := kv.NewMemoryStorage()
	raw := `[{"id":"b","fullName":"سارة","village":"زنجي","university":"جامعة الضالع","college":"التربية","major":"رياضيات","academicLevel":"الأول","studyLocation":"الضالع","createdAt":1760000000000},
	         {"id":"a","fullName":"علي","village":"النجد","university":"جامعة عدن","college":"الهندسة","major":"مدني","academicLevel":"الثالث","studyLocation":"عدن","createdAt":1750000000000}]`
	require.NoError(t, backend.Set(StorageKey, []byte(raw)))

	store := newStore(t, backend)
	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, int64(1760000000000), records[0].CreatedAt.UnixMilli())
}

func TestOpen_DropsDuplicateIDs(t *testing.T) {
	backend := kv.NewMemoryStorage()
	raw := `[{"id":"x","fullName":"first"},{"id":"x","fullName":"second"},{"id":"y","fullName":"third"}]`
	require.NoError(t, backend.Set(StorageKey, []byte(raw)))

	store := newStore(t, backend)
	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].FullName)
	assert.Equal(t, "y", records[1].ID)
}

// =============================================================================
// ADD
// =============================================================================

func TestStore_AddPrependsAndPersists(t *testing.T) {
	backend := kv.NewMemoryStorage()
	store := newStore(t, backend)

	first, err := store.Add(draft("محمد منصور علي"))
	require.NoError(t, err)
	second, err := store.Add(draft("سارة صالح"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "id-2", second.ID)
	assert.Equal(t, fixedClock()(), first.CreatedAt.UTC())

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID, "newest first")

	if diff := cmp.Diff(records, persisted(t, backend)); diff != "" {
		t.Errorf("persisted collection differs from memory (-mem +disk):\n%s", diff)
	}
}

func TestStore_AddRejectsInvalidDraft(t *testing.T) {
	backend := kv.NewMemoryStorage()
	store := newStore(t, backend)

	d := draft("")
	d.Village = "لندن"
	_, err := store.Add(d)

	var verrs student.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.ElementsMatch(t, []string{student.FieldFullName, student.FieldVillage}, verrs.Fields())
	assert.Equal(t, 0, store.Len())

	_, err = backend.Get(StorageKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "nothing should be written")
}

func TestStore_AddNormalizesEnumerations(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())

	d := draft("أحمد سالم")
	d.StudyLocation = "ضالع"
	rec, err := store.Add(d)
	require.NoError(t, err)
	assert.Equal(t, student.LocationDhale, rec.StudyLocation)
}

func TestStore_AddKeepsFreeTextExactly(t *testing.T) {
	backend, err := kv.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	store := newStore(t, backend)

	d := draft("  Ahmed   Ali ")
	d.University = "Aden  University"
	d.College = " كلية  الطب"
	d.Major = "طب بشري  "
	d.AcademicLevel = "سنة\tثانية"
	rec, err := store.Add(d)
	require.NoError(t, err)

	want := []string{d.FullName, d.University, d.College, d.Major, d.AcademicLevel}
	for _, got := range [][]student.Record{store.Records(), persisted(t, backend), Open(backend).Records()} {
		require.Len(t, got, 1)
		r := got[0]
		assert.Equal(t, want, []string{r.FullName, r.University, r.College, r.Major, r.AcademicLevel})
		assert.Equal(t, rec.ID, r.ID)
	}
}

func TestStore_ImportKeepsFreeTextExactly(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())

	d := draft(" سعيد  محمد ")
	d.Village = "  فقع"
	res, err := store.Import([]student.Record{student.NewRecord(d, "imp-1", time.UnixMilli(1700000000000))})
	require.NoError(t, err)
	require.Equal(t, 1, res.Added)

	got := store.Records()[0]
	assert.Equal(t, " سعيد  محمد ", got.FullName)
	assert.Equal(t, "فقع", got.Village)
}

func TestStore_AddSkipsCollidingIDs(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	n := 0
	store := Open(kv.NewMemoryStorage(), WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))

	a, err := store.Add(draft("a"))
	require.NoError(t, err)
	b, err := store.Add(draft("b"))
	require.NoError(t, err)

	assert.Equal(t, "dup", a.ID)
	assert.Equal(t, "fresh", b.ID)
}

func TestStore_IDsUniqueWithRealGenerator(t *testing.T) {
	store := Open(kv.NewMemoryStorage())
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		rec, err := store.Add(draft(fmt.Sprintf("student %d", i)))
		require.NoError(t, err)
		assert.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestStore_WriteFailureLeavesMemoryUnchanged(t *testing.T) {
	backend := &failingBackend{MemoryStorage: kv.NewMemoryStorage()}
	store := newStore(t, backend)
	_, err := store.Add(draft("a"))
	require.NoError(t, err)

	backend.failSet = true
	_, err = store.Add(draft("b"))

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "add", serr.Op)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, store.Records(), persisted(t, backend))
}

// =============================================================================
// REMOVE / CLEAR
// =============================================================================

func TestStore_Remove(t *testing.T) {
	backend := kv.NewMemoryStorage()
	store := newStore(t, backend)
	a, _ := store.Add(draft("a"))
	b, _ := store.Add(draft("b"))
	c, _ := store.Add(draft("c"))

	removed, err := store.Remove(b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	ids := []string{}
	for _, r := range store.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{c.ID, a.ID}, ids)
	assert.Equal(t, store.Records(), persisted(t, backend))
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())
	_, _ = store.Add(draft("a"))

	calls := 0
	store.Subscribe(func([]student.Record) { calls++ })

	removed, err := store.Remove("missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, calls)
}

func TestStore_Clear(t *testing.T) {
	backend := kv.NewMemoryStorage()
	store := newStore(t, backend)
	_, _ = store.Add(draft("a"))
	_, _ = store.Add(draft("b"))

	require.NoError(t, store.Clear())
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, persisted(t, backend))

	// Clearing an empty store is fine
	require.NoError(t, store.Clear())
	assert.Equal(t, 0, store.Len())
}

func TestStore_SurvivesReopen(t *testing.T) {
	backend, err := kv.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store := newStore(t, backend)
	a, _ := store.Add(draft("a"))
	_, _ = store.Add(draft("b"))
	_, _ = store.Remove(a.ID)

	reopened := Open(backend)
	if diff := cmp.Diff(store.Records(), reopened.Records()); diff != "" {
		t.Errorf("reopened store differs (-before +after):\n%s", diff)
	}
}

// =============================================================================
// READS
// =============================================================================

func TestStore_Get(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())
	rec, _ := store.Add(draft("a"))

	got, ok := store.Get(rec.ID)
	assert.True(t, ok)
	assert.Equal(t, rec, got)

	_, ok = store.Get("nope")
	assert.False(t, ok)
}

func TestStore_RecordsIsSnapshot(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())
	_, _ = store.Add(draft("a"))

	records := store.Records()
	records[0].FullName = "mutated"
	assert.Equal(t, "a", store.Records()[0].FullName)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())

	var got [][]student.Record
	unsubscribe := store.Subscribe(func(r []student.Record) { got = append(got, r) })

	a, _ := store.Add(draft("a"))
	_, _ = store.Remove(a.ID)
	_, _ = store.Add(draft("b"))
	require.Len(t, got, 3)
	assert.Len(t, got[0], 1)
	assert.Len(t, got[1], 0)
	assert.Len(t, got[2], 1)

	unsubscribe()
	unsubscribe()
	_ = store.Clear()
	assert.Len(t, got, 3, "no notification after unsubscribe")
}

func TestStore_NoNotificationOnFailedWrite(t *testing.T) {
	backend := &failingBackend{MemoryStorage: kv.NewMemoryStorage(), failSet: true}
	store := newStore(t, backend)

	calls := 0
	store.Subscribe(func([]student.Record) { calls++ })
	_, err := store.Add(draft("a"))
	assert.Error(t, err)
	assert.Zero(t, calls)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	store := newStore(t, kv.NewMemoryStorage())
	var lens []int
	store.Subscribe(func([]student.Record) { lens = append(lens, store.Len()) })

	_, _ = store.Add(draft("a"))
	assert.Equal(t, []int{1}, lens)
}

// =============================================================================
// IMPORT
// =============================================================================

func TestStore_Import(t *testing.T) {
	backend := kv.NewMemoryStorage()
	store := newStore(t, backend)
	existing, _ := store.Add(draft("existing"))

	incoming := []student.Record{
		student.NewRecord(draft("new one"), "imp-1", time.UnixMilli(1700000000000)),
		student.NewRecord(draft("again"), existing.ID, time.UnixMilli(1700000000000)),
		student.NewRecord(draft("new one twice"), "imp-1", time.UnixMilli(1700000000000)),
		student.NewRecord(student.Draft{FullName: "broken"}, "imp-2", time.Now()),
		student.NewRecord(draft("no id"), "", time.Time{}),
	}

	res, err := store.Import(incoming)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Added: 2, Duplicate: 2, Invalid: 1}, res)

	records := store.Records()
	require.Len(t, records, 3)
	assert.Equal(t, existing.ID, records[0].ID)
	assert.Equal(t, "imp-1", records[1].ID)
	assert.Equal(t, int64(1700000000000), records[1].CreatedAt.UnixMilli())
	assert.NotEmpty(t, records[2].ID)
	assert.Equal(t, fixedClock()(), records[2].CreatedAt.UTC())
	assert.Equal(t, records, persisted(t, backend))
}
