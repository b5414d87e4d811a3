package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/fakebook-db/internal/models"
)

const likeColumns = `id, post_id, user_id`

type LikeReadRepository struct {
	base
}

func NewLikeReadRepository(db *sqlx.DB, txGetter TxGetter) *LikeReadRepository {
	return &LikeReadRepository{base{db: db, txGetter: txGetter}}
}

// GetByID returns the like with the given id or ErrNotFound.
func (r *LikeReadRepository) GetByID(ctx context.Context, id int64) (*models.Like, error) {
	const query = `SELECT ` + likeColumns + ` FROM likes WHERE id = $1`

	var like models.Like
	err := sqlx.GetContext(ctx, r.executor(ctx), &like, query, id)

	logQuery(query, []any{id}, like.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &like, nil
}

func (r *LikeReadRepository) ListByPostID(ctx context.Context, postID int64) ([]models.Like, error) {
	return r.list(ctx, `SELECT `+likeColumns+` FROM likes WHERE post_id = $1 ORDER BY id`, postID)
}

func (r *LikeReadRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Like, error) {
	return r.list(ctx, `SELECT `+likeColumns+` FROM likes WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *LikeReadRepository) list(ctx context.Context, query string, arg int64) ([]models.Like, error) {
	likes := []models.Like{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &likes, query, arg)

	logQuery(query, []any{arg}, len(likes), err)

	if err != nil {
		return nil, mapError(err)
	}
	return likes, nil
}

type LikeWriteRepository struct {
	base
}

func NewLikeWriteRepository(db *sqlx.DB, txGetter TxGetter) *LikeWriteRepository {
	return &LikeWriteRepository{base{db: db, txGetter: txGetter}}
}

// Insert stores like and sets its ID.
func (r *LikeWriteRepository) Insert(ctx context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}

	const query = `INSERT INTO likes (post_id, user_id) VALUES ($1, $2) RETURNING id`
	args := []any{like.PostID, like.UserID}

	var id int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &id, query, args...)

	logQuery(query, args, id, err)

	if err != nil {
		return mapError(err)
	}
	like.ID = id
	return nil
}

func (r *LikeWriteRepository) Update(ctx context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}

	const query = `UPDATE likes SET post_id = $1, user_id = $2 WHERE id = $3`
	return r.exec(ctx, query, like.PostID, like.UserID, like.ID)
}

func (r *LikeWriteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
}
