package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/fakebook-db/internal/models"
)

const commentColumns = `id, post_id, user_id, content, created_at`

type CommentReadRepository struct {
	base
}

func NewCommentReadRepository(db *sqlx.DB, txGetter TxGetter) *CommentReadRepository {
	return &CommentReadRepository{base{db: db, txGetter: txGetter}}
}

// GetByID returns the comment with the given id or ErrNotFound.
func (r *CommentReadRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var comment models.Comment
	err := sqlx.GetContext(ctx, r.executor(ctx), &comment, query, id)

	logQuery(query, []any{id}, comment.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}

// ListByPostID returns the comments on a post, oldest first.
func (r *CommentReadRepository) ListByPostID(ctx context.Context, postID int64) ([]models.Comment, error) {
	return r.list(ctx, `SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY id`, postID)
}

// ListByUserID returns the comments written by a user, oldest first.
func (r *CommentReadRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Comment, error) {
	return r.list(ctx, `SELECT `+commentColumns+` FROM comments WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *CommentReadRepository) list(ctx context.Context, query string, arg int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &comments, query, arg)

	logQuery(query, []any{arg}, len(comments), err)

	if err != nil {
		return nil, mapError(err)
	}
	return comments, nil
}

type CommentWriteRepository struct {
	base
}

func NewCommentWriteRepository(db *sqlx.DB, txGetter TxGetter) *CommentWriteRepository {
	return &CommentWriteRepository{base{db: db, txGetter: txGetter}}
}

// Insert stores comment and sets its ID and CreatedAt.
// A zero CreatedAt is replaced by the store's current timestamp.
func (r *CommentWriteRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, COALESCE($4::timestamptz, statement_timestamp()))
		RETURNING id, created_at
	`
	args := []any{comment.PostID, comment.UserID, comment.Content, nullTime(comment.CreatedAt)}

	var row struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, args...)

	logQuery(query, args, row.ID, err)

	if err != nil {
		return mapError(err)
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	return nil
}

// Update rewrites post, author and content. CreatedAt is never written after insert.
func (r *CommentWriteRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	const query = `UPDATE comments SET post_id = $1, user_id = $2, content = $3 WHERE id = $4`
	return r.exec(ctx, query, comment.PostID, comment.UserID, comment.Content, comment.ID)
}

func (r *CommentWriteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
}
