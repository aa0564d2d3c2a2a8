package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(fmt.Errorf("%w: tenant 3", ErrNotFound)))
	assert.True(t, IsDomain(ErrOverlap))
	assert.True(t, errors.Is(ErrOverlap, ErrInvalidInput))
	assert.False(t, IsDomain(errors.New("connection refused")))
	assert.False(t, IsDomain(nil))
}
