package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         *string   `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Password     string    `db:"password" json:"-"`
	Secret       *string   `db:"secret" json:"-"`
	MFA          bool      `db:"mfa" json:"mfa"`
	Role         string    `db:"role" json:"role"`
	Terms        string    `db:"terms" json:"terms"`
	SortBoardsBy string    `db:"sort_boards_by" json:"sortBoardsBy"`
	SortNotesBy  string    `db:"sort_notes_by" json:"sortNotesBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
