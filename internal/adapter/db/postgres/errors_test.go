package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"book-catalog-service/internal/domain/store"
)

type codedError struct{ code int }

func (e codedError) Error() string { return fmt.Sprintf("sqlite error %d", e.code) }
func (e codedError) Code() int     { return e.code }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want store.ErrorKind
	}{
		{"nil", nil, store.KindOther},
		{"record not found", gorm.ErrRecordNotFound, store.KindNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", gorm.ErrRecordNotFound), store.KindNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, store.KindUnique},
		{"postgres unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), store.KindUnique},
		{"postgres other violation", &pgconn.PgError{Code: "23503"}, store.KindOther},
		{"sqlite unique", codedError{code: 2067}, store.KindUnique},
		{"sqlite primary key", codedError{code: 1555}, store.KindUnique},
		{"sqlite busy", codedError{code: 5}, store.KindOther},
		{"unique message", errors.New("UNIQUE constraint failed: users.email"), store.KindUnique},
		{"anything else", errors.New("connection refused"), store.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
