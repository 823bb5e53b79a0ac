package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "students_tutor_id_fkey"}
	plain := errors.New("boom")

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsDuplicateConstraintError(unique, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "users_dni_key"))
	assert.Equal(t, "users_email_key", ConstraintName(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsCheckViolation(fk))

	assert.False(t, IsUniqueViolation(plain))
	assert.Equal(t, "", ConstraintName(plain))
}
