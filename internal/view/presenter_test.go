package view

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/pkg/i18n"
)

func newTestPresenter(t *testing.T, loc *time.Location) *Presenter {
	t.Helper()
	tr, err := i18n.NewTranslator("en", nil)
	require.NoError(t, err)
	return NewPresenter(tr, loc)
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":            "JD",
		"jane doe":            "JD",
		"Mary Ann Smith":      "MA",
		"Plato":               "P",
		"  Budi   Santoso ":   "BS",
		"":                    "",
		"élodie ünal":         "ÉÜ",
		"Muhammad Ali Rahman": "MA",
	}
	for name, want := range cases {
		assert.Equal(t, want, Initials(name), "name %q", name)
	}
}

func TestFormatMarkedAt(t *testing.T) {
	ts := time.Date(2024, 3, 4, 21, 5, 0, 0, time.UTC)
	assert.Equal(t, "21:05", FormatMarkedAt(ts, nil))

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	assert.Equal(t, "04:05", FormatMarkedAt(ts, jakarta))
}

func sampleRecords() []models.AttendanceRecord {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return []models.AttendanceRecord{
		{ID: "att-2", LectureID: "lec-1", StudentID: "stu-2", MarkedAt: base.Add(15 * time.Minute),
			Profile: &models.Profile{FullName: "Jane Doe", StudentNumber: "S-002", Email: "jane@campus.test", Department: "Informatics"}},
		{ID: "att-1", LectureID: "lec-1", StudentID: "stu-1", MarkedAt: base,
			Profile: &models.Profile{FullName: "Budi Santoso", StudentNumber: "S-001", Department: "Physics"}},
	}
}

func TestPresenterDialogPopulated(t *testing.T) {
	p := newTestPresenter(t, time.UTC)
	v := p.Dialog(DialogSnapshot{Open: true, LectureID: "lec-1", LectureTitle: "Distributed Systems", Records: sampleRecords()}, "en")

	assert.Equal(t, StatePopulated, v.State)
	assert.Equal(t, "Attendance List", v.Title)
	assert.Equal(t, "Distributed Systems", v.Description)
	assert.Empty(t, v.Placeholder)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "JD", v.Rows[0].Initials)
	assert.Equal(t, "S-002 • Informatics", v.Rows[0].Subtitle)
	assert.Equal(t, "Present", v.Rows[0].Status)
	assert.Equal(t, "09:15", v.Rows[0].MarkedAtLabel)
	assert.Equal(t, "att-1", v.Rows[1].ID)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "Total: 2 students present", v.Footer)
}

func TestPresenterDialogEmpty(t *testing.T) {
	p := newTestPresenter(t, nil)
	v := p.Dialog(DialogSnapshot{Open: true, LectureID: "lec-1", Records: []models.AttendanceRecord{}}, "en")

	assert.Equal(t, StateEmpty, v.State)
	assert.Equal(t, "No students have marked attendance yet", v.Placeholder)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 0, v.Total)
	assert.Equal(t, "Total: 0 students present", v.Footer)
}

func TestPresenterDialogLoadingHidesRows(t *testing.T) {
	p := newTestPresenter(t, nil)
	v := p.Dialog(DialogSnapshot{Open: true, Loading: true, Records: sampleRecords()}, "en")

	assert.Equal(t, StateLoading, v.State)
	assert.Equal(t, "Loading...", v.Placeholder)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 2, v.Total)
}

func TestPresenterMissingProfile(t *testing.T) {
	p := newTestPresenter(t, nil)
	rows := p.Rows([]models.AttendanceRecord{{ID: "att-9", StudentID: "stu-9", MarkedAt: time.Now()}}, "en")
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown student", rows[0].FullName)
	assert.Equal(t, "?", rows[0].Initials)
	assert.Equal(t, "stu-9", rows[0].Subtitle)
}

func TestPresenterLocalized(t *testing.T) {
	p := newTestPresenter(t, nil)
	v := p.Dialog(DialogSnapshot{Open: true, Records: sampleRecords()}, "id")
	assert.Equal(t, "Daftar Kehadiran", v.Title)
	assert.Equal(t, "Hadir", v.Rows[0].Status)
	assert.Equal(t, "Total: 2 mahasiswa hadir", v.Footer)
}

func render(t *testing.T, v DialogView) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, DialogComponent(v).Render(context.Background(), &buf))
	return buf.String()
}

func TestDialogComponentPopulated(t *testing.T) {
	p := newTestPresenter(t, nil)
	records := sampleRecords()
	records[0].Profile.FullName = "Jane <b>Doe</b>"
	html := render(t, p.Dialog(DialogSnapshot{Open: true, LectureTitle: "Networks & Security", Records: records}, "en"))

	assert.Contains(t, html, `data-state="populated"`)
	assert.Equal(t, 2, strings.Count(html, `<li class="attendance-row"`))
	assert.Contains(t, html, "Networks &amp; Security")
	assert.Contains(t, html, "Jane &lt;b&gt;Doe&lt;/b&gt;")
	assert.NotContains(t, html, "<b>Doe</b>")
	assert.Contains(t, html, `data-total="2"`)
	assert.Less(t, strings.Index(html, "att-2"), strings.Index(html, "att-1"))
}

func TestDialogComponentPlaceholders(t *testing.T) {
	p := newTestPresenter(t, nil)

	loading := render(t, p.Dialog(DialogSnapshot{Open: true, Loading: true}, "en"))
	assert.Contains(t, loading, "Loading...")
	assert.NotContains(t, loading, "<li")

	empty := render(t, p.Dialog(DialogSnapshot{Open: true}, "en"))
	assert.Contains(t, empty, "No students have marked attendance yet")
	assert.Contains(t, empty, `data-total="0"`)
}

func TestDialogComponentClosedRendersNothing(t *testing.T) {
	p := newTestPresenter(t, nil)
	assert.Empty(t, render(t, p.Dialog(DialogSnapshot{Open: false, Records: sampleRecords()}, "en")))
}
