package models

import "time"

// AttendanceStatus describes a roster entry's presence mark. Only students
// who marked attendance appear in a lecture roster, so every row is present.
type AttendanceStatus string

const AttendanceStatusPresent AttendanceStatus = "present"

// Profile is the student metadata joined onto an attendance record.
type Profile struct {
	FullName      string `json:"full_name"`
	StudentNumber string `json:"student_id"`
	Email         string `json:"email"`
	Department    string `json:"department"`
}

// AttendanceRecord is a single student's presence mark for a lecture.
type AttendanceRecord struct {
	ID        string    `json:"id" validate:"required"`
	LectureID string    `json:"lecture_id" validate:"required"`
	StudentID string    `json:"student_id" validate:"required"`
	MarkedAt  time.Time `json:"marked_at" validate:"required"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// Status reports the presence mark of the record.
func (r AttendanceRecord) Status() AttendanceStatus {
	return AttendanceStatusPresent
}

// LectureRoster bundles a lecture with its ordered attendance records.
type LectureRoster struct {
	Lecture Lecture            `json:"lecture"`
	Records []AttendanceRecord `json:"records"`
	Total   int                `json:"total"`
}
