package dto

import (
	"time"

	"github.com/noah-isme/lecture-attendance-api/internal/view"
)

// OpenDialogRequest opens an attendance dialog for a lecture.
type OpenDialogRequest struct {
	LectureID    string `json:"lectureId" validate:"required,max=64"`
	LectureTitle string `json:"lectureTitle" validate:"max=255"`
	Locale       string `json:"locale,omitempty" validate:"max=64"`
}

// UpdateDialogRequest patches dialog props; nil fields keep their value.
type UpdateDialogRequest struct {
	Open         *bool   `json:"open"`
	LectureID    *string `json:"lectureId" validate:"omitempty,max=64"`
	LectureTitle *string `json:"lectureTitle" validate:"omitempty,max=255"`
}

// DialogSessionResponse is the payload of every dialog endpoint.
type DialogSessionResponse struct {
	ID           string          `json:"id"`
	Locale       string          `json:"locale"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastActivity time.Time       `json:"lastActivity"`
	View         view.DialogView `json:"view"`
}
