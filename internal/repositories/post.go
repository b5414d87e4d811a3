package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/fakebook-db/internal/models"
)

const postColumns = `id, user_id, content, created_at`

type PostReadRepository struct {
	base
}

func NewPostReadRepository(db *sqlx.DB, txGetter TxGetter) *PostReadRepository {
	return &PostReadRepository{base{db: db, txGetter: txGetter}}
}

// GetByID returns the post with the given id or ErrNotFound.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post models.Post
	err := sqlx.GetContext(ctx, r.executor(ctx), &post, query, id)

	logQuery(query, []any{id}, post.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

// ListByUserID returns the posts written by a user, oldest first.
func (r *PostReadRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY id`

	posts := []models.Post{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &posts, query, userID)

	logQuery(query, []any{userID}, len(posts), err)

	if err != nil {
		return nil, mapError(err)
	}
	return posts, nil
}

type PostWriteRepository struct {
	base
}

func NewPostWriteRepository(db *sqlx.DB, txGetter TxGetter) *PostWriteRepository {
	return &PostWriteRepository{base{db: db, txGetter: txGetter}}
}

// Insert stores post and sets its ID and CreatedAt.
// A zero CreatedAt is replaced by the store's current timestamp.
func (r *PostWriteRepository) Insert(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO posts (user_id, content, created_at)
		VALUES ($1, $2, COALESCE($3::timestamptz, statement_timestamp()))
		RETURNING id, created_at
	`
	args := []any{post.UserID, post.Content, nullTime(post.CreatedAt)}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, args...)

	logQuery(query, args, row.ID, err)

	if err != nil {
		return mapError(err)
	}
	post.ID = row.ID
	post.CreatedAt = row.CreatedAt
	return nil
}

// Update rewrites the author and content. CreatedAt is never written after insert.
func (r *PostWriteRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	const query = `UPDATE posts SET user_id = $1, content = $2 WHERE id = $3`
	return r.exec(ctx, query, post.UserID, post.Content, post.ID)
}

// Delete removes the post. Comments or likes still referencing it block the delete
// unless the schema declares a cascading action.
func (r *PostWriteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
}
