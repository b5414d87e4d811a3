package models

import "time"

// Post is a row of the posts table. A zero CreatedAt on insert is filled by the store.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id" validate:"required,gt=0"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (p *Post) Validate() error {
	return validateStruct(p)
}
