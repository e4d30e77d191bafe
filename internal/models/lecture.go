package models

// Lecture is a scheduled class session.
type Lecture struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
}
