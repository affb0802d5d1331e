package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueConstraintError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"mysql 1062", &mysql.MySQLError{Number: 1062}, true},
		{"sqlite message", errors.New("UNIQUE constraint failed: role.name"), true},
		{"wrapped", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isUniqueConstraintError(tc.err))
		})
	}
}

func TestIsForeignKeyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrForeignKeyViolated, true},
		{"postgres 23503", &pgconn.PgError{Code: "23503"}, true},
		{"mysql 1451", &mysql.MySQLError{Number: 1451}, true},
		{"mysql 1452", &mysql.MySQLError{Number: 1452}, true},
		{"sqlite message", errors.New("FOREIGN KEY constraint failed"), true},
		{"unrelated", errors.New("UNIQUE constraint failed"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isForeignKeyError(tc.err))
		})
	}
}
