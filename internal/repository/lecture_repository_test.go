package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLectureRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title FROM lectures WHERE id = $1")).
		WithArgs("lec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow("lec-1", "Distributed Systems"))

	lecture, err := repo.FindByID(context.Background(), "lec-1")
	require.NoError(t, err)
	assert.Equal(t, "Distributed Systems", lecture.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title FROM lectures WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := repo.FindByID(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
