package domain

import "time"

// Note is a free-text annotation on a claim, independent of status history.
// Append-only in normal operation; ordered by creation time ascending.
type Note struct {
	ID           string
	ClaimID      string
	AuthorUserID string
	Text         string
	CreatedAt    time.Time
}

// Detail is a note joined with its author's display fields.
type Detail struct {
	Note
	AuthorEmail     string
	AuthorFirstName string
	AuthorLastName  string
	AuthorRole      string
}
