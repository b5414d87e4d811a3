package models

// Like is a row of the likes table.
type Like struct {
	ID     int64 `json:"id" db:"id"`
	PostID int64 `json:"post_id" db:"post_id" validate:"required,gt=0"`
	UserID int64 `json:"user_id" db:"user_id" validate:"required,gt=0"`
}

func (l *Like) Validate() error {
	return validateStruct(l)
}
