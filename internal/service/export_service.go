package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/lecture-attendance-api/internal/dto"
	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
	"github.com/noah-isme/lecture-attendance-api/pkg/export"
	"github.com/noah-isme/lecture-attendance-api/pkg/i18n"
)

const exportTimeLayout = "2006-01-02 15:04"

type rosterSource interface {
	Roster(ctx context.Context, lectureID string) (*models.LectureRoster, bool, error)
}

// Exporter renders a dataset into a downloadable format.
type Exporter interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders lecture rosters as CSV or PDF downloads.
type ExportService struct {
	rosters   rosterSource
	presenter *view.Presenter
	exporters map[string]Exporter
}

// NewExportService registers the CSV and PDF exporters.
func NewExportService(rosters rosterSource, presenter *view.Presenter) *ExportService {
	if presenter == nil {
		presenter = view.NewPresenter(nil, nil)
	}
	return &ExportService{
		rosters:   rosters,
		presenter: presenter,
		exporters: map[string]Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
	}
}

// Export renders the lecture roster in format ("csv" or "pdf").
func (s *ExportService) Export(ctx context.Context, lectureID, format, locale string) (*dto.ExportFile, error) {
	exporter, ok := s.exporters[strings.ToLower(format)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	roster, _, err := s.rosters.Roster(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	payload, err := exporter.Render(s.dataset(roster, locale))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("attendance-%s.%s", safeFilePart(roster.Lecture.ID), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) dataset(roster *models.LectureRoster, locale string) export.Dataset {
	p := s.presenter
	data := export.Dataset{
		Title:    p.T(locale, i18n.MsgDialogTitle, nil),
		Subtitle: roster.Lecture.Title,
		Headers: []string{
			p.T(locale, i18n.MsgColumnName, nil),
			p.T(locale, i18n.MsgColumnStudentID, nil),
			p.T(locale, i18n.MsgColumnDepartment, nil),
			p.T(locale, i18n.MsgColumnEmail, nil),
			p.T(locale, i18n.MsgColumnStatus, nil),
			p.T(locale, i18n.MsgColumnMarkedAt, nil),
		},
		Rows:   make([][]string, 0, len(roster.Records)),
		Footer: p.T(locale, i18n.MsgDialogTotal, map[string]any{"Count": len(roster.Records)}),
	}

	rows := p.Rows(roster.Records, locale)
	for i, row := range rows {
		data.Rows = append(data.Rows, []string{
			row.FullName,
			row.StudentNumber,
			row.Department,
			row.Email,
			row.Status,
			roster.Records[i].MarkedAt.In(p.Location()).Format(exportTimeLayout),
		})
	}
	return data
}

func safeFilePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
