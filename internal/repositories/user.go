package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/fakebook-db/internal/models"
)

const userColumns = `id, username, email, password_hash, bio, profile_picture`

type UserReadRepository struct {
	base
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{base{db: db, txGetter: txGetter}}
}

// GetByID returns the user with the given id or ErrNotFound.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user owning username or ErrNotFound.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns the user owning email or ErrNotFound.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserReadRepository) getBy(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, arg)

	logQuery(query, []any{arg}, user.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

type UserWriteRepository struct {
	base
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{base{db: db, txGetter: txGetter}}
}

// Insert stores user and sets its ID. A taken username or email yields ErrUniquenessViolation.
func (r *UserWriteRepository) Insert(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO users (username, email, password_hash, bio, profile_picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	args := []any{user.Username, user.Email, user.PasswordHash, user.Bio, user.ProfilePicture}

	var id int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &id, query, args...)

	logQuery(query, redactPassword(args), id, err)

	if err != nil {
		return mapError(err)
	}
	user.ID = id
	return nil
}

// Update overwrites every column of the user identified by user.ID.
func (r *UserWriteRepository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	const query = `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, bio = $4, profile_picture = $5
		WHERE id = $6
	`
	return r.exec(ctx, query, user.Username, user.Email, user.PasswordHash, user.Bio, user.ProfilePicture, user.ID)
}

// Delete removes the user. Posts, comments or likes still referencing it block the delete
// unless the schema declares a cascading action.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func redactPassword(args []any) []any {
	out := make([]any, len(args))
	copy(out, args)
	out[2] = "[REDACTED]"
	return out
}
