package models

// ExportNote and friends mirror what a user is allowed to take with them.
// Credential fields (password, secret, mfa) are deliberately absent.

type ExportNote struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

type ExportBoard struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	ImageURL *string      `json:"imageUrl"`
	Notes    []ExportNote `json:"notes"`
}

type Export struct {
	Name   *string       `json:"name"`
	Email  string        `json:"email"`
	Boards []ExportBoard `json:"boards"`
}
