package models

import "time"

// Comment is a row of the comments table. A zero CreatedAt on insert is filled by the store.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id" validate:"required,gt=0"`
	UserID    int64     `json:"user_id" db:"user_id" validate:"required,gt=0"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c *Comment) Validate() error {
	return validateStruct(c)
}
