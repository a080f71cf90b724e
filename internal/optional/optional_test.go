package optional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Parallel()

	none := None[bool]()
	require.False(t, none.IsPresent())
	require.True(t, none.ValueOr(true))

	some := Some(false)
	require.True(t, some.IsPresent())
	require.False(t, some.ValueOr(true))

	var nilPtr *int32
	require.False(t, FromPointer(nilPtr).IsPresent())
	v := int32(7)
	require.Equal(t, int32(7), FromPointer(&v).Value())
}
