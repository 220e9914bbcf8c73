package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("GaussianNB", "Predict")
	require.Error(t, err)
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)

	s.SetFitted(3, 20)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("GaussianNB", "Predict"))
	f, n := s.Dimensions()
	assert.Equal(t, 3, f)
	assert.Equal(t, 20, n)

	assert.NoError(t, s.RequireFeatures("Predict", 3))
	var de *scigoErrors.DimensionError
	require.True(t, scigoErrors.As(s.RequireFeatures("Predict", 2), &de))
	assert.Equal(t, 3, de.Expected)

	s.Reset()
	assert.False(t, s.IsFitted())
	f, n = s.Dimensions()
	assert.Zero(t, f)
	assert.Zero(t, n)
}
