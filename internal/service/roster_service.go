package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
)

const rosterCacheKeyPrefix = "roster:lecture:"

type attendanceReader interface {
	ListByLecture(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error)
}

type lectureReader interface {
	FindByID(ctx context.Context, id string) (*models.Lecture, error)
}

type rosterQuery struct {
	LectureID string `validate:"required,max=64"`
}

// RosterService reads lecture rosters, optionally through the Redis cache.
type RosterService struct {
	attendance attendanceReader
	lectures   lectureReader
	cache      *CacheService
	metrics    *MetricsService
	validate   *validator.Validate
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewRosterService constructs the roster service. cache and metrics may be nil.
func NewRosterService(attendance attendanceReader, lectures lectureReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, cacheTTL time.Duration, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		attendance: attendance,
		lectures:   lectures,
		cache:      cache,
		metrics:    metrics,
		validate:   validate,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// ListByLecture returns the lecture's attendance ordered by marking time,
// newest first, served from cache when possible.
func (s *RosterService) ListByLecture(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error) {
	records, _, err := s.list(ctx, lectureID)
	return records, err
}

// Roster returns the lecture with its attendance and whether the records came from cache.
func (s *RosterService) Roster(ctx context.Context, lectureID string) (*models.LectureRoster, bool, error) {
	lecture, err := s.Lecture(ctx, lectureID)
	if err != nil {
		return nil, false, err
	}
	records, hit, err := s.list(ctx, lectureID)
	if err != nil {
		return nil, false, err
	}
	return &models.LectureRoster{Lecture: *lecture, Records: records, Total: len(records)}, hit, nil
}

// Lecture resolves lecture metadata.
func (s *RosterService) Lecture(ctx context.Context, lectureID string) (*models.Lecture, error) {
	if err := s.validateLectureID(lectureID); err != nil {
		return nil, err
	}
	lecture, err := s.lectures.FindByID(ctx, lectureID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	return lecture, nil
}

// Reload drops the cached roster and reads the lecture's attendance from the
// database, storing the fresh result for later cached reads. Attendance
// dialogs fetch through it so every open or refresh sees current marks.
func (s *RosterService) Reload(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error) {
	if err := s.validateLectureID(lectureID); err != nil {
		return nil, err
	}
	if err := s.Invalidate(ctx, lectureID); err != nil {
		s.logger.Warn("roster invalidate failed", zap.String("lecture_id", lectureID), zap.Error(err))
	}
	return s.query(ctx, lectureID)
}

// Invalidate drops the cached roster of a lecture.
func (s *RosterService) Invalidate(ctx context.Context, lectureID string) error {
	return s.cache.Invalidate(ctx, rosterCacheKey(lectureID))
}

func (s *RosterService) list(ctx context.Context, lectureID string) ([]models.AttendanceRecord, bool, error) {
	if err := s.validateLectureID(lectureID); err != nil {
		return nil, false, err
	}

	key := rosterCacheKey(lectureID)
	var cached []models.AttendanceRecord
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		if cached == nil {
			cached = []models.AttendanceRecord{}
		}
		return cached, true, nil
	}

	records, err := s.query(ctx, lectureID)
	if err != nil {
		return nil, false, err
	}
	return records, false, nil
}

// query reads the database and refreshes the cache entry.
func (s *RosterService) query(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error) {
	start := time.Now()
	records, err := s.attendance.ListByLecture(ctx, lectureID)
	s.metrics.ObserveDBQuery("attendance_by_lecture", time.Since(start))
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	_ = s.cache.Set(ctx, rosterCacheKey(lectureID), records, s.cacheTTL)
	return records, nil
}

func (s *RosterService) validateLectureID(lectureID string) error {
	if err := s.validate.Struct(rosterQuery{LectureID: lectureID}); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "lectureId is required and must be at most 64 characters")
	}
	return nil
}

func rosterCacheKey(lectureID string) string {
	return rosterCacheKeyPrefix + lectureID
}
