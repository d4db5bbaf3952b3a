//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"hotel-booking/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind []infra.RepositoryErrorKind
		want infra.RepositoryErrorKind
	}{
		{name: "explicit kind wins", err: errors.New("no rows"), kind: []infra.RepositoryErrorKind{infra.KindNotFound}, want: infra.KindNotFound},
		{name: "plain error is a db failure", err: errors.New("conn reset"), want: infra.KindDBFailure},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: infra.KindDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: infra.KindForeignKeyViolated},
		{name: "capacity trigger", err: &pgconn.PgError{Code: "HB001"}, want: infra.KindConflict},
		{name: "check violation is a db failure", err: &pgconn.PgError{Code: "23514"}, want: infra.KindDBFailure},
		{name: "lock timeout", err: &pgconn.PgError{Code: "55P03"}, want: infra.KindLockTimeout},
	}

	for _, tt := range tests {
		t.Run("success: "+tt.name, func(t *testing.T) {
			err := infra.WrapRepoErr("op failed", tt.err, tt.kind...)

			assert.True(t, infra.IsKind(err, tt.want))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), string(tt.want)+": op failed")
		})
	}

	t.Run("success: nil cause keeps message", func(t *testing.T) {
		err := infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
		assert.Equal(t, "NOT_FOUND: reservation not found", err.Error())
	})

	t.Run("error: unrelated error is no kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("x"), infra.KindNotFound))
	})
}
