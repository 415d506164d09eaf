// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// =============================================================================
// FIXTURES
// =============================================================================

var exportDate = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixtureRecords() []student.Record {
	return []student.Record{
		student.NewRecord(student.Draft{
			FullName:      "محمد منصور علي",
			Village:       "فقع",
			University:    "جامعة عدن",
			College:       "الطب",
			Major:         "طب بشري",
			AcademicLevel: "المستوى الثاني",
			StudyLocation: "عدن",
		}, "id-2", exportDate),
		student.NewRecord(student.Draft{
			FullName:      "سارة صالح أحمد",
			Village:       "المجزرة",
			University:    "جامعة الضالع",
			College:       "التربية",
			Major:         "رياضيات",
			AcademicLevel: "المستوى الأول",
			StudyLocation: "الضالع",
		}, "id-1", exportDate.Add(-time.Hour)),
	}
}

func testOptions(t *testing.T) *Options {
	return &Options{
		OutputDir: t.TempDir(),
		Delegate:  DefaultDelegate,
		Now:       func() time.Time { return exportDate },
	}
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// =============================================================================
// LISTINGS
// =============================================================================

func TestWhatsAppMessage_Golden(t *testing.T) {
	golden(t).Assert(t, "whatsapp_two_records", []byte(WhatsAppMessage(fixtureRecords())))
}

func TestTextListing_Golden(t *testing.T) {
	golden(t).Assert(t, "text_two_records", []byte(TextListing(fixtureRecords())))
}

func TestWhatsAppMessage_Structure(t *testing.T) {
	msg := WhatsAppMessage(fixtureRecords())

	assert.True(t, strings.HasPrefix(msg, "📋 كشف الطلاب المسجلين - مكتب مندوب العوابل\n"))
	assert.True(t, strings.HasSuffix(msg, "\n📊 إجمالي الطلاب: 2"))
	assert.Equal(t, 3, strings.Count(msg, separator), "one header separator plus one per record")
	assert.Contains(t, msg, "1. 👤 محمد منصور علي\n")
	assert.Contains(t, msg, "2. 👤 سارة صالح أحمد\n")
}

func TestTextListing_Lines(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(TextListing(fixtureRecords()), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "كشف طلاب العوابل - اتحاد الشعيب", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "1. محمد منصور علي - فقع - طب بشري - جامعة عدن", lines[2])
	assert.Equal(t, "2. سارة صالح أحمد - المجزرة - رياضيات - جامعة الضالع", lines[3])
}

// =============================================================================
// PRINT VIEW
// =============================================================================

func TestHTMLExporter(t *testing.T) {
	out, err := NewHTMLExporter(testOptions(t)).Export(fixtureRecords())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<html lang="ar" dir="rtl">`)
	assert.Contains(t, page, "<h1>اتحاد طلاب الشعيب</h1>")
	assert.Contains(t, page, "<h2>كشف بيانات طلاب وطالبات مدينة العوابل</h2>")
	assert.Contains(t, page, "بإشراف المندوب: مهدي علي مهدي")
	assert.Contains(t, page, "<td>جامعة عدن - الطب</td>")
	assert.Contains(t, page, "<td>المستوى الأول</td>")
	assert.Contains(t, page, "توقيع المندوب")
	assert.Contains(t, page, "ختم الاتحاد")
	assert.Contains(t, page, "ختم رسمي")
	assert.Contains(t, page, "window.print()")
	assert.Equal(t, len(printColumns), strings.Count(page, "<th>"))
	assert.Equal(t, 2, strings.Count(page, `<td class="index">`))
}

func TestHTMLExporter_EscapesValues(t *testing.T) {
	recs := fixtureRecords()[:1]
	recs[0].FullName = `<script>alert("x")</script>`

	out, err := NewHTMLExporter(testOptions(t)).Export(recs)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `<script>alert`)
	assert.Contains(t, string(out), "&lt;script&gt;")
}

// =============================================================================
// DATA DUMPS
// =============================================================================

func TestJSONExporter_ImportsBack(t *testing.T) {
	opts := testOptions(t)
	path, err := ExportToFile(fixtureRecords(), NewJSONExporter(opts), opts)
	require.NoError(t, err)

	got, err := ReadRecords(path)
	require.NoError(t, err)
	if diff := cmp.Diff(fixtureRecords(), got); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONExporter_EmptyIsArray(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestYAMLExporter_ImportsBack(t *testing.T) {
	opts := testOptions(t)
	path, err := ExportToFile(fixtureRecords(), NewYAMLExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, ".yaml", filepath.Ext(path))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "id-2", got[0].ID)
	assert.Equal(t, "فقع", got[0].Village)
	assert.True(t, got[0].CreatedAt.Equal(exportDate))
}

func TestMarkdownExporter(t *testing.T) {
	recs := fixtureRecords()
	recs[1].Major = "رياضيات | إحصاء"

	out, err := NewMarkdownExporter(nil).Export(recs)
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "| # | الاسم الرباعي | القرية |")
	assert.Contains(t, md, `رياضيات \| إحصاء`)
	assert.Contains(t, md, "**إجمالي الطلاب: 2**")
}

func TestReadRecords_BrowserArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	raw := `[{"id":"a","fullName":"علي","village":"النجد","university":"u","college":"c","major":"m","academicLevel":"l","studyLocation":"عدن","createdAt":1760000000000}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1760000000000), got[0].CreatedAt.UnixMilli())
}

func TestReadRecords_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
	_, err := ReadRecords(path)
	assert.Error(t, err)
}

// =============================================================================
// FILES
// =============================================================================

func TestDateStamp(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "١٨-١٠-٢٠٢٦"},
		{time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "٥-١-٢٠٢٥"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateStamp(tt.at))
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "كشف_الطلاب_١٨-١٠-٢٠٢٦.txt", FileName(exportDate, ".txt"))
	assert.NotContains(t, FileName(exportDate, ".txt"), "/")
}

func TestExportToFile(t *testing.T) {
	opts := testOptions(t)
	opts.OutputDir = filepath.Join(opts.OutputDir, "nested", "dir")

	path, err := ExportToFile(fixtureRecords(), NewTextExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutputDir, "كشف_الطلاب_١٨-١٠-٢٠٢٦.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, TextListing(fixtureRecords()), string(data))
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats() {
		e, err := ForFormat(name, nil)
		require.NoError(t, err, name)
		assert.NotEmpty(t, e.FileExtension())
		assert.NotEmpty(t, e.MimeType())
	}

	e, err := ForFormat("PRINT", nil)
	require.NoError(t, err)
	assert.IsType(t, &HTMLExporter{}, e)

	_, err = ForFormat("pdf", nil)
	assert.ErrorContains(t, err, "unknown export format")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"كشف الطلاب", "كشف_الطلاب"},
		{"a/b\\c:d", "a-b-c-d"},
		{"tab\there", "tab_here"},
		{"", "export"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}
