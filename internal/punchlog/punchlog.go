package punchlog

import "time"

// Entry records one attendance submission attempt.
type Entry struct {
	ID          string
	Kind        string
	SubmittedAt time.Time
	Elapsed     time.Duration
	Status      string
	Succeeded   bool
	Detail      string // error text, empty on success
}
