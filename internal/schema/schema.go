// Package schema declares the Fakebook tables, their constraints and indexes,
// and renders them as PostgreSQL DDL.
//
// The core declaration is built by Build. Callers extend or adjust it with
// Options, which run after the core tables are in place and before any DDL is
// rendered.
package schema

import (
	"fmt"
	"strings"
)

// Table names.
const (
	Users    = "users"
	Posts    = "posts"
	Comments = "comments"
	Likes    = "likes"
)

// Action is the referential action taken on the child row when a parent row is deleted.
type Action string

const (
	Restrict Action = "RESTRICT"
	Cascade  Action = "CASCADE"
	SetNull  Action = "SET NULL"
	NoAction Action = "NO ACTION"
)

// Column is a single column definition.
type Column struct {
	Name     string
	Type     string
	NotNull  bool
	Default  string // SQL expression, empty for none
	Identity bool   // GENERATED ALWAYS AS IDENTITY
}

// Table is a table with a named primary key on its identity column.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []Column
}

// Index is a named, optionally unique, index.
type Index struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// ForeignKey is a named foreign-key constraint.
type ForeignKey struct {
	Name       string
	Table      string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   Action
}

// Model is the complete schema: tables in creation order plus their indexes and foreign keys.
type Model struct {
	Tables      []Table
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// Option adjusts a Model after the core declaration.
type Option func(m *Model)

// Build returns the Fakebook schema with opts applied in order.
func Build(opts ...Option) *Model {
	m := core()
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func core() *Model {
	id := Column{Name: "id", Type: "BIGINT", NotNull: true, Identity: true}
	createdAt := Column{Name: "created_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "statement_timestamp()"}
	content := Column{Name: "content", Type: "TEXT", NotNull: true, Default: "''"}
	ref := func(name string) Column { return Column{Name: name, Type: "BIGINT", NotNull: true} }

	m := &Model{
		Tables: []Table{
			{
				Name:       Users,
				PrimaryKey: "pk_users",
				Columns: []Column{
					id,
					{Name: "username", Type: "VARCHAR(50)", NotNull: true},
					{Name: "email", Type: "VARCHAR(100)", NotNull: true},
					{Name: "password_hash", Type: "VARCHAR(255)", NotNull: true},
					{Name: "bio", Type: "VARCHAR(255)"},
					{Name: "profile_picture", Type: "VARCHAR(255)"},
				},
			},
			{
				Name:       Posts,
				PrimaryKey: "pk_posts",
				Columns:    []Column{id, ref("user_id"), content, createdAt},
			},
			{
				Name:       Comments,
				PrimaryKey: "pk_comments",
				Columns:    []Column{id, ref("post_id"), ref("user_id"), content, createdAt},
			},
			{
				Name:       Likes,
				PrimaryKey: "pk_likes",
				Columns:    []Column{id, ref("post_id"), ref("user_id")},
			},
		},
		Indexes: []Index{
			{Name: "uq_users_username", Table: Users, Columns: []string{"username"}, Unique: true},
			{Name: "uq_users_email", Table: Users, Columns: []string{"email"}, Unique: true},
		},
	}

	m.addForeignKey(Posts, "user_id", Users)
	m.addForeignKey(Comments, "post_id", Posts)
	m.addForeignKey(Comments, "user_id", Users)
	m.addForeignKey(Likes, "post_id", Posts)
	m.addForeignKey(Likes, "user_id", Users)

	return m
}

// addForeignKey declares fk_<table>_<column> with RESTRICT and a supporting ix_<table>_<column> index.
func (m *Model) addForeignKey(table, column, refTable string) {
	m.ForeignKeys = append(m.ForeignKeys, ForeignKey{
		Name:       fmt.Sprintf("fk_%s_%s", table, column),
		Table:      table,
		Columns:    []string{column},
		RefTable:   refTable,
		RefColumns: []string{"id"},
		OnDelete:   Restrict,
	})
	m.Indexes = append(m.Indexes, Index{
		Name:    fmt.Sprintf("ix_%s_%s", table, column),
		Table:   table,
		Columns: []string{column},
	})
}

// Table returns the named table or nil.
func (m *Model) Table(name string) *Table {
	for i := range m.Tables {
		if m.Tables[i].Name == name {
			return &m.Tables[i]
		}
	}
	return nil
}

// ForeignKey returns the named foreign key or nil.
func (m *Model) ForeignKey(name string) *ForeignKey {
	for i := range m.ForeignKeys {
		if m.ForeignKeys[i].Name == name {
			return &m.ForeignKeys[i]
		}
	}
	return nil
}

// WithDeleteAction sets the ON DELETE action of every foreign key.
func WithDeleteAction(a Action) Option {
	return func(m *Model) {
		for i := range m.ForeignKeys {
			m.ForeignKeys[i].OnDelete = a
		}
	}
}

// WithForeignKeyDeleteAction sets the ON DELETE action of a single foreign key.
// Unknown names are ignored.
func WithForeignKeyDeleteAction(name string, a Action) Option {
	return func(m *Model) {
		if fk := m.ForeignKey(name); fk != nil {
			fk.OnDelete = a
		}
	}
}

// WithColumn appends a column to an existing table. Unknown tables are ignored.
func WithColumn(table string, c Column) Option {
	return func(m *Model) {
		if t := m.Table(table); t != nil {
			t.Columns = append(t.Columns, c)
		}
	}
}

// WithIndex appends an index.
func WithIndex(idx Index) Option {
	return func(m *Model) {
		m.Indexes = append(m.Indexes, idx)
	}
}

// CreateStatements renders the DDL creating the schema: tables, then foreign keys, then indexes.
func (m *Model) CreateStatements() []string {
	stmts := make([]string, 0, len(m.Tables)+len(m.ForeignKeys)+len(m.Indexes))
	for _, t := range m.Tables {
		stmts = append(stmts, t.createSQL())
	}
	for _, fk := range m.ForeignKeys {
		stmts = append(stmts, fk.createSQL())
	}
	for _, idx := range m.Indexes {
		stmts = append(stmts, idx.createSQL())
	}
	return stmts
}

// DropStatements renders the DDL dropping every table in reverse creation order.
func (m *Model) DropStatements() []string {
	stmts := make([]string, 0, len(m.Tables))
	for i := len(m.Tables) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", m.Tables[i].Name))
	}
	return stmts
}

func (t Table) createSQL() string {
	defs := make([]string, 0, len(t.Columns)+1)
	var pk string
	for _, c := range t.Columns {
		defs = append(defs, c.sql())
		if c.Identity {
			pk = c.Name
		}
	}
	if pk != "" && t.PrimaryKey != "" {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)", t.PrimaryKey, pk))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

func (c Column) sql() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Type)
	if c.Identity {
		b.WriteString(" GENERATED ALWAYS AS IDENTITY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	return b.String()
}

func (fk ForeignKey) createSQL() string {
	action := fk.OnDelete
	if action == "" {
		action = Restrict
	}
	// ADD CONSTRAINT has no IF NOT EXISTS. A constraint on this table with a different
	// ON DELETE action is dropped and re-added so the declared action always wins.
	lookup := fmt.Sprintf("SELECT 1 FROM pg_constraint WHERE conname = '%s' AND conrelid = '%s'::regclass AND contype = 'f'",
		fk.Name, fk.Table)
	return fmt.Sprintf(`DO $$
BEGIN
	IF EXISTS (%s AND confdeltype <> '%s') THEN
		ALTER TABLE %s DROP CONSTRAINT %s;
	END IF;
	IF NOT EXISTS (%s) THEN
		ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s;
	END IF;
END $$`,
		lookup, action.catalogCode(),
		fk.Table, fk.Name,
		lookup,
		fk.Table, fk.Name,
		strings.Join(fk.Columns, ", "), fk.RefTable, strings.Join(fk.RefColumns, ", "),
		action)
}

// catalogCode is the pg_constraint.confdeltype letter for a.
func (a Action) catalogCode() string {
	switch a {
	case Cascade:
		return "c"
	case SetNull:
		return "n"
	case NoAction:
		return "a"
	default:
		return "r"
	}
}

func (idx Index) createSQL() string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		unique, idx.Name, idx.Table, strings.Join(idx.Columns, ", "))
}
