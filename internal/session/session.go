// Package session opens a connection pool to the Fakebook store and hands out
// typed collection handles over it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sbilibin2017/fakebook-db/internal/config"
	"github.com/sbilibin2017/fakebook-db/internal/logger"
	"github.com/sbilibin2017/fakebook-db/internal/repositories"
	"github.com/sbilibin2017/fakebook-db/internal/schema"
	"github.com/sbilibin2017/fakebook-db/internal/transactions"
)

// ErrConnection is returned when the store cannot be reached or rejects the configured credentials.
var ErrConnection = errors.New("connection error")

// Users is the handle for the users table.
type Users struct {
	*repositories.UserReadRepository
	*repositories.UserWriteRepository
}

// Posts is the handle for the posts table.
type Posts struct {
	*repositories.PostReadRepository
	*repositories.PostWriteRepository
}

// Comments is the handle for the comments table.
type Comments struct {
	*repositories.CommentReadRepository
	*repositories.CommentWriteRepository
}

// Likes is the handle for the likes table.
type Likes struct {
	*repositories.LikeReadRepository
	*repositories.LikeWriteRepository
}

// Session owns a connection pool. It is safe for concurrent use.
type Session struct {
	db *sqlx.DB
	id uuid.UUID

	users    Users
	posts    Posts
	comments Comments
	likes    Likes
}

// Open connects to the store described by cfg and verifies the connection.
func Open(ctx context.Context, cfg config.Database) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	logger.Log.Infow("connecting to store", "dsn", cfg.Redacted())

	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Log.Errorw("store ping failed", "dsn", cfg.Redacted(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return New(db), nil
}

// New wraps an already opened pool.
func New(db *sqlx.DB) *Session {
	s := &Session{db: db, id: uuid.New()}

	txGetter := transactions.FromContext
	s.users = Users{
		repositories.NewUserReadRepository(db, txGetter),
		repositories.NewUserWriteRepository(db, txGetter),
	}
	s.posts = Posts{
		repositories.NewPostReadRepository(db, txGetter),
		repositories.NewPostWriteRepository(db, txGetter),
	}
	s.comments = Comments{
		repositories.NewCommentReadRepository(db, txGetter),
		repositories.NewCommentWriteRepository(db, txGetter),
	}
	s.likes = Likes{
		repositories.NewLikeReadRepository(db, txGetter),
		repositories.NewLikeWriteRepository(db, txGetter),
	}

	s.log().Info("session opened")
	return s
}

// log tags the current global logger with the session id, so a Session opened
// before logger.Initialize still logs through the configured logger.
func (s *Session) log() *zap.SugaredLogger {
	return logger.Log.With("session_id", s.id.String())
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// DB exposes the underlying pool.
func (s *Session) DB() *sqlx.DB { return s.db }

func (s *Session) Users() Users       { return s.users }
func (s *Session) Posts() Posts       { return s.posts }
func (s *Session) Comments() Comments { return s.comments }
func (s *Session) Likes() Likes       { return s.likes }

// InTx runs fn in one transaction. Collection calls made with the ctx passed to fn join it.
func (s *Session) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return transactions.Run(ctx, s.db, fn)
}

// Migrate creates the schema, with opts applied on top of the core declaration, in one transaction.
func (s *Session) Migrate(ctx context.Context, opts ...schema.Option) error {
	m := schema.Build(opts...)
	err := s.InTx(ctx, func(ctx context.Context) error {
		return schema.Up(ctx, transactions.FromContext(ctx), m)
	})
	if err != nil {
		s.log().Errorw("migration failed", "error", err)
		return err
	}
	s.log().Infow("schema migrated", "tables", len(m.Tables), "indexes", len(m.Indexes), "foreign_keys", len(m.ForeignKeys))
	return nil
}

// Drop removes every table of the schema in one transaction.
func (s *Session) Drop(ctx context.Context, opts ...schema.Option) error {
	err := s.InTx(ctx, func(ctx context.Context) error {
		return schema.Down(ctx, transactions.FromContext(ctx), schema.Build(opts...))
	})
	if err != nil {
		s.log().Errorw("drop failed", "error", err)
		return err
	}
	s.log().Info("schema dropped")
	return nil
}

// Close releases the pool.
func (s *Session) Close() error {
	s.log().Info("session closed")
	return s.db.Close()
}
