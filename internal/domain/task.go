package domain

import "time"

// Task is a single to-do item. OwnerID, Username and CreatedAt are set once
// at insert time; only Checked and Private change afterwards.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Username  string    `db:"username" json:"username"`
	Checked   bool      `db:"checked" json:"checked"`
	Private   bool      `db:"private" json:"private"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
