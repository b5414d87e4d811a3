package models

// User is a row of the users table.
type User struct {
	ID             int64   `json:"id" db:"id"`
	Username       string  `json:"username" db:"username" validate:"required,max=50"`
	Email          string  `json:"email" db:"email" validate:"required,max=100"`
	PasswordHash   string  `json:"-" db:"password_hash" validate:"required,max=255"`
	Bio            *string `json:"bio,omitempty" db:"bio" validate:"omitempty,max=255"`
	ProfilePicture *string `json:"profile_picture,omitempty" db:"profile_picture" validate:"omitempty,max=255"`
}

// Validate checks column lengths and required fields before the row reaches the store.
func (u *User) Validate() error {
	return validateStruct(u)
}
