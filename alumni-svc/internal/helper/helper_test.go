package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))

	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("save: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: alumni.email")))
}

func TestAppErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ConflictError("already registered"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, 409, KindOf(err).Status())

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))

	cause := errors.New("db down")
	internal := InternalError("failed to load", cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, 500, internal.Kind.Status())
	assert.Equal(t, "internal_error", internal.Kind.Code())

	assert.Equal(t, 400, ExpiredError("x").Kind.Status())
	assert.Equal(t, 400, InvalidCodeError("x").Kind.Status())
	assert.Equal(t, 401, UnauthenticatedError("x").Kind.Status())
	assert.Equal(t, 403, UnauthorizedError("x").Kind.Status())
	assert.Equal(t, 503, UnavailableError("x").Kind.Status())
	assert.Equal(t, 429, RateLimitedError("x").Kind.Status())
}
