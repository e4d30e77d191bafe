package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
)

// LectureRepository resolves lecture metadata.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository constructs the repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// FindByID returns the lecture or a wrapped sql.ErrNoRows.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, `SELECT id, title FROM lectures WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("find lecture %s: %w", id, err)
	}
	return &lecture, nil
}

// Ping verifies database connectivity for the readiness check.
func (r *LectureRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
