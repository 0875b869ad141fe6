package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/erazemk/itemize/internal/errors"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sample{Name: "Pen", Quantity: 1}))

	err := v.Validate(sample{Name: "", Quantity: 0})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	var de *domainerrors.Error
	require.True(t, domainerrors.As(err, &de))
	details, ok := de.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["sample.name"])
	assert.Equal(t, "must be greater than or equal to 1", details["sample.quantity"])
}

func TestValidateMax(t *testing.T) {
	err := New().Validate(sample{Name: "Too long", Quantity: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not exceed 5 characters")
}
