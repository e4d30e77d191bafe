package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
)

type rosterSourceStub struct {
	roster *models.LectureRoster
	err    error
}

func (s rosterSourceStub) Roster(ctx context.Context, lectureID string) (*models.LectureRoster, bool, error) {
	return s.roster, false, s.err
}

func exportRoster() *models.LectureRoster {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	first := record("2", "lec-1", "Jane Doe", base.Add(5*time.Minute))
	first.Profile.Email = "jane@campus.test"
	return &models.LectureRoster{
		Lecture: models.Lecture{ID: "lec-1", Title: "Distributed Systems"},
		Records: []models.AttendanceRecord{first, record("1", "lec-1", "Ana Lima", base)},
		Total:   2,
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(rosterSourceStub{roster: exportRoster()}, testPresenter(t))

	file, err := svc.Export(context.Background(), "lec-1", "CSV", "en")
	require.NoError(t, err)
	assert.Equal(t, "attendance-lec-1.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Student ID", "Department", "Email", "Status", "Marked At"}, rows[0])
	assert.Equal(t, []string{"Jane Doe", "S-2", "Informatics", "jane@campus.test", "Present", "2024-03-04 09:05"}, rows[1])
	assert.Equal(t, "Ana Lima", rows[2][0])
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(rosterSourceStub{roster: exportRoster()}, testPresenter(t))

	file, err := svc.Export(context.Background(), "lec-1", "pdf", "id")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(rosterSourceStub{err: appErrors.Clone(appErrors.ErrNotFound, "lecture not found")}, nil)

	_, err := svc.Export(context.Background(), "lec-1", "xlsx", "en")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Export(context.Background(), "lec-1", "csv", "en")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSafeFilePart(t *testing.T) {
	assert.Equal(t, "a_b_c-1", safeFilePart("a/b c-1"))
}
