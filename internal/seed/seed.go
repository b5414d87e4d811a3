package seed

import (
	"context"
	"fmt"

	"github.com/sbilibin2017/fakebook-db/internal/logger"
	"github.com/sbilibin2017/fakebook-db/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=seed.go -destination=seed_mock.go -package=seed

// UserWriter inserts users.
type UserWriter interface {
	Insert(ctx context.Context, user *models.User) error
}

// PostWriter inserts posts.
type PostWriter interface {
	Insert(ctx context.Context, post *models.Post) error
}

// CommentWriter inserts comments.
type CommentWriter interface {
	Insert(ctx context.Context, comment *models.Comment) error
}

// LikeWriter inserts likes.
type LikeWriter interface {
	Insert(ctx context.Context, like *models.Like) error
}

// TxRunner runs fn in a single transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DemoUser is a user to create together with a plain-text password.
type DemoUser struct {
	Username string
	Email    string
	Password string
	Bio      string
	Posts    []string
}

// Summary counts the rows a run created.
type Summary struct {
	Users, Posts, Comments, Likes int
}

// Seeder loads demo data: users with their posts, then every other user
// comments on and likes each post.
type Seeder struct {
	tx       TxRunner
	users    UserWriter
	posts    PostWriter
	comments CommentWriter
	likes    LikeWriter
	cost     int
}

func NewSeeder(tx TxRunner, users UserWriter, posts PostWriter, comments CommentWriter, likes LikeWriter) *Seeder {
	return &Seeder{
		tx:       tx,
		users:    users,
		posts:    posts,
		comments: comments,
		likes:    likes,
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost sets the bcrypt cost used for demo passwords.
func (s *Seeder) WithCost(cost int) *Seeder {
	s.cost = cost
	return s
}

// Run inserts demo in one transaction. Any failure rolls back the whole run.
func (s *Seeder) Run(ctx context.Context, demo []DemoUser) (Summary, error) {
	var sum Summary
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		sum = Summary{}

		users := make([]*models.User, 0, len(demo))
		var posts []*models.Post

		for _, d := range demo {
			hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), s.cost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", d.Username, err)
			}

			u := &models.User{Username: d.Username, Email: d.Email, PasswordHash: string(hash)}
			if d.Bio != "" {
				bio := d.Bio
				u.Bio = &bio
			}
			if err := s.users.Insert(ctx, u); err != nil {
				return fmt.Errorf("insert user %s: %w", d.Username, err)
			}
			users = append(users, u)
			sum.Users++

			for _, content := range d.Posts {
				p := &models.Post{UserID: u.ID, Content: content}
				if err := s.posts.Insert(ctx, p); err != nil {
					return fmt.Errorf("insert post for %s: %w", d.Username, err)
				}
				posts = append(posts, p)
				sum.Posts++
			}
		}

		for _, p := range posts {
			for _, u := range users {
				if u.ID == p.UserID {
					continue
				}
				c := &models.Comment{PostID: p.ID, UserID: u.ID, Content: fmt.Sprintf("%s was here", u.Username)}
				if err := s.comments.Insert(ctx, c); err != nil {
					return fmt.Errorf("insert comment on post %d: %w", p.ID, err)
				}
				sum.Comments++

				if err := s.likes.Insert(ctx, &models.Like{PostID: p.ID, UserID: u.ID}); err != nil {
					return fmt.Errorf("insert like on post %d: %w", p.ID, err)
				}
				sum.Likes++
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Errorw("seed failed", "error", err)
		return Summary{}, err
	}

	logger.Log.Infow("seed complete", "users", sum.Users, "posts", sum.Posts, "comments", sum.Comments, "likes", sum.Likes)
	return sum, nil
}

// Demo is the default data set loaded by the seed command.
var Demo = []DemoUser{
	{
		Username: "mark",
		Email:    "mark@fakebook.test",
		Password: "hunter2",
		Bio:      "Moving fast.",
		Posts:    []string{"Hello, Fakebook!", "Anyone up for a hackathon?"},
	},
	{
		Username: "eduardo",
		Email:    "eduardo@fakebook.test",
		Password: "correct horse",
		Posts:    []string{"Quarterly numbers look good."},
	},
	{
		Username: "dustin",
		Email:    "dustin@fakebook.test",
		Password: "battery staple",
		Bio:      "Servers, mostly.",
	},
}
