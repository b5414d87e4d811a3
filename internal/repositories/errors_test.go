package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_posts_user_id"}
	other := &pgconn.PgError{Code: "42P01"}
	plain := errors.New("connection reset")

	tests := []struct {
		name       string
		in         error
		want       error
		constraint string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: sql.ErrNoRows, want: ErrNotFound},
		{name: "unique", in: uniq, want: ErrUniquenessViolation, constraint: "uq_users_email"},
		{name: "foreign key", in: fk, want: ErrReferentialIntegrityViolation, constraint: "fk_posts_user_id"},
		{name: "other pg error", in: other, want: other},
		{name: "plain", in: plain, want: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.in, "driver error must stay in the chain")
			assert.Equal(t, tt.constraint, ConstraintName(got))
			if tt.constraint != "" {
				assert.Contains(t, got.Error(), tt.constraint)
			}
		})
	}
}
