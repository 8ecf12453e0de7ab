package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"book-catalog-service/internal/domain/store"
)

const (
	pgUniqueViolation = "23505"

	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// ClassifyError maps GORM, PostgreSQL and SQLite errors to a store.ErrorKind.
func ClassifyError(err error) store.ErrorKind {
	if err == nil {
		return store.KindOther
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.KindNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.KindUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return store.KindUnique
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraintPrimaryKey, sqliteConstraintUnique:
			return store.KindUnique
		}
	}

	// sqlite drivers without extended result codes only report the message
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.KindUnique
	}

	return store.KindOther
}
