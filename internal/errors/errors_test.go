package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("item abc not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("loading item: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestPersistenceWrapsCause(t *testing.T) {
	assert.NoError(t, Persistence("saving", nil))

	err := Persistence("saving", io.ErrUnexpectedEOF)
	assert.True(t, Is(err, ErrPersistence))
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "saving: unexpected EOF", err.Error())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{Validation("bad"), CodeValidation},
		{fmt.Errorf("ctx: %w", Conflict("in use")), CodeConflict},
		{io.EOF, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeOf(tt.err))
	}
}

func TestValidationWithDetailsKeepsCode(t *testing.T) {
	err := ValidationWithDetails("name is required", map[string]string{"name": "is required"})
	assert.True(t, Is(err, ErrValidation))
	assert.Equal(t, map[string]string{"name": "is required"}, err.Details)
}
