package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
)

func TestKindMatching(t *testing.T) {
	t.Run("IsMatchesKind", func(t *testing.T) {
		err := apperror.Conflict("already enrolled")
		assert.True(t, errors.Is(err, apperror.ErrConflict))
		assert.False(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("enroll: %w", apperror.Forbidden("not enrolled"))
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("ForeignErrorIsInternal", func(t *testing.T) {
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
	})

	t.Run("InternalUnwraps", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := apperror.Internal(cause, "failed to load quiz")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load quiz: connection reset", err.Error())
	})

	t.Run("ValidationFields", func(t *testing.T) {
		err := apperror.Validation("invalid payload", apperror.FieldError{Field: "title", Error: "this field is required"})
		var appErr *apperror.Error
		assert.True(t, errors.As(err, &appErr))
		assert.Len(t, appErr.Fields, 1)
		assert.Equal(t, "title", appErr.Fields[0].Field)
	})
}
