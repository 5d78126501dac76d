package models

import "time"

// Handoff is one patient-handoff note. Ward is copied from the author's
// affiliation at creation time and scopes who can read or change the note.
type Handoff struct {
	ID          int       `json:"id"`
	PatientName string    `json:"patientName"`
	Room        string    `json:"room"`
	Diagnosis   string    `json:"diagnosis"`
	Content     string    `json:"content"`
	Ward        string    `json:"ward"`
	AuthorID    int       `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
