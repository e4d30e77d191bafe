package view

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/pkg/i18n"
)

// DialogState is the list area state of an attendance dialog.
type DialogState string

const (
	StateLoading   DialogState = "loading"
	StateEmpty     DialogState = "empty"
	StatePopulated DialogState = "populated"
)

const (
	maxInitials   = 2
	markedAtShape = "15:04"
	subtitleSep   = " • "
)

// Translator renders localized labels.
type Translator interface {
	T(locale, key string, data map[string]any) string
}

// RowView is one rendered roster row.
type RowView struct {
	ID            string `json:"id"`
	Initials      string `json:"initials"`
	FullName      string `json:"full_name"`
	StudentNumber string `json:"student_id"`
	Department    string `json:"department"`
	Email         string `json:"email,omitempty"`
	Subtitle      string `json:"subtitle"`
	Status        string `json:"status"`
	MarkedAt      string `json:"marked_at"`
	MarkedAtLabel string `json:"marked_at_label"`
}

// DialogView is the rendered attendance dialog.
type DialogView struct {
	Open        bool        `json:"open"`
	LectureID   string      `json:"lecture_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	State       DialogState `json:"state"`
	Placeholder string      `json:"placeholder,omitempty"`
	Rows        []RowView   `json:"rows"`
	Total       int         `json:"total"`
	Footer      string      `json:"footer"`
}

// DialogSnapshot is the dialog state a view is rendered from.
type DialogSnapshot struct {
	Open         bool
	LectureID    string
	LectureTitle string
	Loading      bool
	Records      []models.AttendanceRecord
}

// Initials takes the first letter of every space separated word, uppercases
// the result and keeps at most two characters.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Split(name, " ") {
		if word == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	// Casers carry state and cannot be shared across goroutines.
	out := cases.Upper(language.Und).String(b.String())
	if utf8.RuneCountInString(out) <= maxInitials {
		return out
	}
	runes := []rune(out)
	return string(runes[:maxInitials])
}

// FormatMarkedAt renders a marking time as 24-hour HH:mm in loc.
func FormatMarkedAt(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(markedAtShape)
}

// Presenter turns attendance records into localized view models.
type Presenter struct {
	translator Translator
	location   *time.Location
}

// NewPresenter builds a presenter rendering times in loc.
func NewPresenter(translator Translator, loc *time.Location) *Presenter {
	if loc == nil {
		loc = time.UTC
	}
	return &Presenter{translator: translator, location: loc}
}

// Location is the display timezone.
func (p *Presenter) Location() *time.Location {
	return p.location
}

// T localizes key, falling back to the key itself without a translator.
func (p *Presenter) T(locale, key string, data map[string]any) string {
	return p.t(locale, key, data)
}

func (p *Presenter) t(locale, key string, data map[string]any) string {
	if p.translator == nil {
		return key
	}
	return p.translator.T(locale, key, data)
}

// Rows renders one row per record, preserving order.
func (p *Presenter) Rows(records []models.AttendanceRecord, locale string) []RowView {
	rows := make([]RowView, 0, len(records))
	for _, record := range records {
		row := RowView{
			ID:            record.ID,
			Status:        p.statusLabel(record.Status(), locale),
			MarkedAt:      record.MarkedAt.UTC().Format(time.RFC3339),
			MarkedAtLabel: FormatMarkedAt(record.MarkedAt, p.location),
		}
		if record.Profile != nil {
			row.FullName = record.Profile.FullName
			row.Initials = Initials(record.Profile.FullName)
			row.StudentNumber = record.Profile.StudentNumber
			row.Department = record.Profile.Department
			row.Email = record.Profile.Email
			row.Subtitle = record.Profile.StudentNumber + subtitleSep + record.Profile.Department
		} else {
			row.FullName = p.t(locale, i18n.MsgUnknownStudent, nil)
			row.Initials = "?"
			row.Subtitle = record.StudentID
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Presenter) statusLabel(status models.AttendanceStatus, locale string) string {
	switch status {
	case models.AttendanceStatusPresent:
		return p.t(locale, i18n.MsgDialogPresent, nil)
	default:
		return string(status)
	}
}

// Dialog renders the full dialog view. Loading wins over any loaded records.
func (p *Presenter) Dialog(snap DialogSnapshot, locale string) DialogView {
	v := DialogView{
		Open:        snap.Open,
		LectureID:   snap.LectureID,
		Title:       p.t(locale, i18n.MsgDialogTitle, nil),
		Description: snap.LectureTitle,
		Rows:        []RowView{},
		Total:       len(snap.Records),
	}
	v.Footer = p.t(locale, i18n.MsgDialogTotal, map[string]any{"Count": v.Total})

	switch {
	case snap.Loading:
		v.State = StateLoading
		v.Placeholder = p.t(locale, i18n.MsgDialogLoading, nil)
	case len(snap.Records) == 0:
		v.State = StateEmpty
		v.Placeholder = p.t(locale, i18n.MsgDialogEmpty, nil)
	default:
		v.State = StatePopulated
		v.Rows = p.Rows(snap.Records, locale)
	}
	return v
}
