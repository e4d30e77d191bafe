package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lecture-attendance-api/internal/dto"
	"github.com/noah-isme/lecture-attendance-api/internal/models"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error map[string]interface{} `json:"error"`
}

type fakeRosterSrv struct {
	roster    *models.LectureRoster
	hit       bool
	err       error
	lectureID string
}

func (f *fakeRosterSrv) Roster(_ context.Context, lectureID string) (*models.LectureRoster, bool, error) {
	f.lectureID = lectureID
	return f.roster, f.hit, f.err
}

type fakeExportSrv struct {
	file   *dto.ExportFile
	err    error
	format string
	locale string
}

func (f *fakeExportSrv) Export(_ context.Context, _ string, format, locale string) (*dto.ExportFile, error) {
	f.format = format
	f.locale = locale
	return f.file, f.err
}

func sampleRoster() *models.LectureRoster {
	records := []models.AttendanceRecord{{
		ID:        "a-1",
		LectureID: "lec-1",
		StudentID: "stu-1",
		MarkedAt:  time.Date(2024, 3, 4, 9, 5, 0, 0, time.UTC),
		Profile:   &models.Profile{FullName: "Jane Doe", StudentNumber: "S-1", Department: "Informatics"},
	}}
	return &models.LectureRoster{Lecture: models.Lecture{ID: "lec-1", Title: "Algorithms"}, Records: records, Total: 1}
}

func TestRosterHandlerListSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRosterSrv{roster: sampleRoster(), hit: true}
	handler := NewRosterHandler(srv, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/lectures/lec-1/attendance", nil)
	c.Params = gin.Params{{Key: "lectureId", Value: "lec-1"}}

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "lec-1", srv.lectureID)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.EqualValues(t, 1, envelope.Data["total"])
	rows, ok := envelope.Data["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "JD", rows[0].(map[string]interface{})["initials"])
}

func TestRosterHandlerListRequiresLecture(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&fakeRosterSrv{}, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/lectures//attendance", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterHandlerListNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRosterHandler(&fakeRosterSrv{err: appErrors.Clone(appErrors.ErrNotFound, "lecture not found")}, nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/lectures/missing/attendance", nil)
	c.Params = gin.Params{{Key: "lectureId", Value: "missing"}}

	handler.List(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRosterHandlerExportInvalidFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &fakeExportSrv{}
	handler := NewRosterHandler(nil, exports, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/lectures/lec-1/attendance/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "lectureId", Value: "lec-1"}}

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, exports.format)
}

func TestRosterHandlerExportAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &fakeExportSrv{file: &dto.ExportFile{
		Filename:    "attendance-lec-1.csv",
		ContentType: "text/csv",
		Payload:     []byte("Name\nJane Doe\n"),
	}}
	handler := NewRosterHandler(nil, exports, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/lectures/lec-1/attendance/export?lang=id", nil)
	c.Params = gin.Params{{Key: "lectureId", Value: "lec-1"}}

	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exports.format)
	assert.Equal(t, "id", exports.locale)
	assert.Equal(t, `attachment; filename="attendance-lec-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Name\nJane Doe\n", rec.Body.String())
}

func TestRequestLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		target   string
		header   string
		expected string
	}{
		{name: "query wins over header", target: "/?lang=id", header: "en-US", expected: "id"},
		{name: "header when no query", target: "/", header: "en-US,en;q=0.9", expected: "en-US,en;q=0.9"},
		{name: "blank query falls back", target: "/?lang=%20", header: "id", expected: "id"},
		{name: "nothing set", target: "/", expected: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				c.Request.Header.Set("Accept-Language", tc.header)
			}
			assert.Equal(t, tc.expected, requestLocale(c))
		})
	}
}
