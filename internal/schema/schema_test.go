package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_CoreTables(t *testing.T) {
	m := Build()

	names := make([]string, 0, len(m.Tables))
	for _, tbl := range m.Tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{Users, Posts, Comments, Likes}, names, "parents must be created before children")

	users := m.Table(Users)
	if assert.NotNil(t, users) {
		assert.Equal(t, "pk_users", users.PrimaryKey)
	}
	assert.Nil(t, m.Table("friends"))
}

func TestBuild_ForeignKeysDefaultToRestrict(t *testing.T) {
	m := Build()

	want := map[string]string{
		"fk_posts_user_id":    Users,
		"fk_comments_post_id": Posts,
		"fk_comments_user_id": Users,
		"fk_likes_post_id":    Posts,
		"fk_likes_user_id":    Users,
	}
	assert.Len(t, m.ForeignKeys, len(want))
	for name, ref := range want {
		fk := m.ForeignKey(name)
		if assert.NotNil(t, fk, name) {
			assert.Equal(t, ref, fk.RefTable)
			assert.Equal(t, Restrict, fk.OnDelete)
		}
	}
}

func TestCreateStatements(t *testing.T) {
	stmts := Build().CreateStatements()
	all := strings.Join(stmts, "\n")

	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS users"))
	assert.Contains(t, all, "username VARCHAR(50) NOT NULL")
	assert.Contains(t, all, "email VARCHAR(100) NOT NULL")
	assert.Contains(t, all, "password_hash VARCHAR(255) NOT NULL")
	assert.Contains(t, all, "bio VARCHAR(255),")
	assert.Contains(t, all, "id BIGINT GENERATED ALWAYS AS IDENTITY NOT NULL")
	assert.Contains(t, all, "created_at TIMESTAMPTZ NOT NULL DEFAULT statement_timestamp()")
	assert.Contains(t, all, "CONSTRAINT pk_likes PRIMARY KEY (id)")
	assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS uq_users_username ON users (username)")
	assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email)")
	assert.Contains(t, all, "CREATE INDEX IF NOT EXISTS ix_comments_post_id ON comments (post_id)")
	assert.Contains(t, all, "ALTER TABLE likes ADD CONSTRAINT fk_likes_user_id FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE RESTRICT")

	likesTable := stmts[3]
	assert.NotContains(t, likesTable, "created_at")
}

func TestForeignKeySQL_ReplacesMismatchedAction(t *testing.T) {
	restrict := Build().ForeignKey("fk_posts_user_id").createSQL()
	assert.Contains(t, restrict, "conname = 'fk_posts_user_id' AND conrelid = 'posts'::regclass AND contype = 'f' AND confdeltype <> 'r'")
	assert.Contains(t, restrict, "ALTER TABLE posts DROP CONSTRAINT fk_posts_user_id")

	cascade := Build(WithDeleteAction(Cascade)).ForeignKey("fk_posts_user_id").createSQL()
	assert.Contains(t, cascade, "confdeltype <> 'c'")
	assert.Contains(t, cascade, "ON DELETE CASCADE")

	assert.Equal(t, "n", SetNull.catalogCode())
	assert.Equal(t, "a", NoAction.catalogCode())
	assert.Equal(t, "r", Action("").catalogCode())
}

func TestDropStatements_ReverseOrder(t *testing.T) {
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS likes",
		"DROP TABLE IF EXISTS comments",
		"DROP TABLE IF EXISTS posts",
		"DROP TABLE IF EXISTS users",
	}, Build().DropStatements())
}

func TestOptions(t *testing.T) {
	t.Run("delete action for all keys", func(t *testing.T) {
		m := Build(WithDeleteAction(Cascade))
		for _, fk := range m.ForeignKeys {
			assert.Equal(t, Cascade, fk.OnDelete, fk.Name)
		}
		assert.Contains(t, strings.Join(m.CreateStatements(), "\n"), "ON DELETE CASCADE")
	})

	t.Run("delete action for one key", func(t *testing.T) {
		m := Build(WithForeignKeyDeleteAction("fk_likes_post_id", Cascade), WithForeignKeyDeleteAction("fk_missing", Cascade))
		assert.Equal(t, Cascade, m.ForeignKey("fk_likes_post_id").OnDelete)
		assert.Equal(t, Restrict, m.ForeignKey("fk_posts_user_id").OnDelete)
	})

	t.Run("extra column and index", func(t *testing.T) {
		m := Build(
			WithColumn(Posts, Column{Name: "visibility", Type: "VARCHAR(16)", NotNull: true, Default: "'public'"}),
			WithColumn("missing", Column{Name: "x", Type: "INT"}),
			WithIndex(Index{Name: "ix_posts_created_at", Table: Posts, Columns: []string{"created_at"}}),
			nil,
		)
		all := strings.Join(m.CreateStatements(), "\n")
		assert.Contains(t, all, "visibility VARCHAR(16) NOT NULL DEFAULT 'public'")
		assert.Contains(t, all, "CREATE INDEX IF NOT EXISTS ix_posts_created_at ON posts (created_at)")
	})

	t.Run("options run after core", func(t *testing.T) {
		var seen int
		Build(func(m *Model) { seen = len(m.Tables) })
		assert.Equal(t, 4, seen)
	})

	t.Run("builds are independent", func(t *testing.T) {
		Build(WithDeleteAction(Cascade))
		assert.Equal(t, Restrict, Build().ForeignKey("fk_posts_user_id").OnDelete)
	})
}
