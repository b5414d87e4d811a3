package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func validUser() User {
	return User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(u *User) {}},
		{name: "valid with optional fields", mutate: func(u *User) {
			u.Bio = ptr("hi")
			u.ProfilePicture = ptr("https://cdn.example.com/a.png")
		}},
		{name: "username at limit", mutate: func(u *User) { u.Username = strings.Repeat("a", 50) }},
		{name: "username too long", mutate: func(u *User) { u.Username = strings.Repeat("a", 51) }, wantErr: true, field: "Username"},
		{name: "username counts runes", mutate: func(u *User) { u.Username = strings.Repeat("ж", 50) }},
		{name: "email too long", mutate: func(u *User) { u.Email = strings.Repeat("e", 101) }, wantErr: true, field: "Email"},
		{name: "password hash too long", mutate: func(u *User) { u.PasswordHash = strings.Repeat("p", 256) }, wantErr: true, field: "PasswordHash"},
		{name: "bio too long", mutate: func(u *User) { u.Bio = ptr(strings.Repeat("b", 256)) }, wantErr: true, field: "Bio"},
		{name: "profile picture too long", mutate: func(u *User) { u.ProfilePicture = ptr(strings.Repeat("p", 256)) }, wantErr: true, field: "ProfilePicture"},
		{name: "missing username", mutate: func(u *User) { u.Username = "" }, wantErr: true, field: "Username"},
		{name: "missing email", mutate: func(u *User) { u.Email = "" }, wantErr: true, field: "Email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)

			err := u.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPost_Validate(t *testing.T) {
	assert.NoError(t, (&Post{UserID: 1}).Validate())
	assert.ErrorIs(t, (&Post{}).Validate(), ErrValidation)
}

func TestComment_Validate(t *testing.T) {
	assert.NoError(t, (&Comment{UserID: 1, PostID: 2}).Validate())
	assert.ErrorIs(t, (&Comment{UserID: 1}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Comment{PostID: 2}).Validate(), ErrValidation)
}

func TestLike_Validate(t *testing.T) {
	assert.NoError(t, (&Like{UserID: 1, PostID: 2}).Validate())
	assert.ErrorIs(t, (&Like{UserID: -1, PostID: 2}).Validate(), ErrValidation)
}
