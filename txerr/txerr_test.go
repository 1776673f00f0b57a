package txerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDistinguishesKinds(t *testing.T) {
	err := Wrap(NotFound, "user id=5")
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, LockConflict))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "whatever"))
	assert.NoError(t, Wrapf(nil, "whatever %d", 1))
}

func TestWrapfPreservesKind(t *testing.T) {
	err := Wrapf(MissingColumn, "column %q", "name")
	assert.True(t, Is(err, MissingColumn))
	assert.Contains(t, err.Error(), "column \"name\"")
}
