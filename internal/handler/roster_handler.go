package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lecture-attendance-api/internal/dto"
	"github.com/noah-isme/lecture-attendance-api/internal/middleware"
	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
	"github.com/noah-isme/lecture-attendance-api/pkg/response"
)

type rosterService interface {
	Roster(ctx context.Context, lectureID string) (*models.LectureRoster, bool, error)
}

type exportService interface {
	Export(ctx context.Context, lectureID, format, locale string) (*dto.ExportFile, error)
}

// RosterHandler serves lecture attendance rosters.
type RosterHandler struct {
	rosters   rosterService
	exports   exportService
	presenter *view.Presenter
}

// NewRosterHandler constructs the handler. presenter may be nil.
func NewRosterHandler(rosters rosterService, exports exportService, presenter *view.Presenter) *RosterHandler {
	if presenter == nil {
		presenter = view.NewPresenter(nil, nil)
	}
	return &RosterHandler{rosters: rosters, exports: exports, presenter: presenter}
}

type rosterPayload struct {
	Lecture models.Lecture            `json:"lecture"`
	Records []models.AttendanceRecord `json:"records"`
	Rows    []view.RowView            `json:"rows"`
	Total   int                       `json:"total"`
}

// List godoc
// @Summary Lecture attendance
// @Description Attendance of a lecture joined with student profiles, newest first.
// @Tags Attendance
// @Produce json
// @Param lectureId path string true "Lecture ID"
// @Param lang query string false "Locale used for row labels"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lectures/{lectureId}/attendance [get]
func (h *RosterHandler) List(c *gin.Context) {
	if h.rosters == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	lectureID := strings.TrimSpace(c.Param("lectureId"))
	if lectureID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "lectureId is required"))
		return
	}

	start := time.Now()
	roster, cacheHit, err := h.rosters.Roster(c.Request.Context(), lectureID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()

	response.JSON(c, http.StatusOK, rosterPayload{
		Lecture: roster.Lecture,
		Records: roster.Records,
		Rows:    h.presenter.Rows(roster.Records, requestLocale(c)),
		Total:   roster.Total,
	}, meta)
}

// Export godoc
// @Summary Export lecture attendance
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param lectureId path string true "Lecture ID"
// @Param format query string false "csv or pdf" default(csv)
// @Param lang query string false "Locale used for headers"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /lectures/{lectureId}/attendance/export [get]
func (h *RosterHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	file, err := h.exports.Export(c.Request.Context(), c.Param("lectureId"), format, requestLocale(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
