package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darisishe/txorm/txerr"
)

func TestConstructorsRoundTrip(t *testing.T) {
	s, err := String("hello").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	b, err := Bytes([]byte("bin")).AsBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("bin"), b)

	i, err := Int64(42).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	f, err := Float64(3.5).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)

	bo, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, bo)
}

func TestKindMismatchReturnsUnexpectedType(t *testing.T) {
	v := String("x")

	_, err := v.AsInt64()
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.UnexpectedType))

	_, err = v.AsBool()
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.UnexpectedType))
}

func TestAny(t *testing.T) {
	assert.Equal(t, "x", String("x").Any())
	assert.Equal(t, int64(7), Int64(7).Any())
	assert.Equal(t, true, Bool(true).Any())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "String", KindString.String())
	assert.Equal(t, "Bool", KindBool.String())
}
