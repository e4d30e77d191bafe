package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
)

const attendanceByLectureQuery = `SELECT a.id, a.lecture_id, a.student_id, a.marked_at,
        p.id AS profile_id, p.full_name, p.student_id AS profile_student_id, p.email, p.department
FROM attendance a
LEFT JOIN profiles p ON p.id = a.student_id
WHERE a.lecture_id = $1
ORDER BY a.marked_at DESC`

// attendanceRow mirrors the joined result set before validation.
type attendanceRow struct {
	ID                   sql.NullString `db:"id"`
	LectureID            sql.NullString `db:"lecture_id"`
	StudentID            sql.NullString `db:"student_id"`
	MarkedAt             sql.NullTime   `db:"marked_at"`
	ProfileID            sql.NullString `db:"profile_id"`
	FullName             sql.NullString `db:"full_name"`
	ProfileStudentNumber sql.NullString `db:"profile_student_id"`
	Email                sql.NullString `db:"email"`
	Department           sql.NullString `db:"department"`
}

func (r attendanceRow) toModel() models.AttendanceRecord {
	record := models.AttendanceRecord{
		ID:        r.ID.String,
		LectureID: r.LectureID.String,
		StudentID: r.StudentID.String,
	}
	if r.MarkedAt.Valid {
		record.MarkedAt = r.MarkedAt.Time
	}
	if r.ProfileID.Valid {
		record.Profile = &models.Profile{
			FullName:      r.FullName.String,
			StudentNumber: r.ProfileStudentNumber.String,
			Email:         r.Email.String,
			Department:    r.Department.String,
		}
	}
	return record
}

// AttendanceRepository reads lecture attendance joined with student profiles.
type AttendanceRepository struct {
	db       *sqlx.DB
	validate *validator.Validate
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB, validate *validator.Validate) *AttendanceRepository {
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceRepository{db: db, validate: validate}
}

// ListByLecture returns every attendance record of a lecture, newest mark
// first. A lecture without records yields an empty, non-nil slice.
func (r *AttendanceRepository) ListByLecture(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error) {
	var rows []attendanceRow
	if err := r.db.SelectContext(ctx, &rows, attendanceByLectureQuery, lectureID); err != nil {
		return nil, fmt.Errorf("list attendance by lecture: %w", err)
	}

	records := make([]models.AttendanceRecord, 0, len(rows))
	for i, row := range rows {
		record := row.toModel()
		if err := r.validate.StructCtx(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidRecord.Code, appErrors.ErrInvalidRecord.Status,
				fmt.Sprintf("attendance row %d (id=%q) failed validation", i, record.ID))
		}
		records = append(records, record)
	}
	return records, nil
}
