package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	s, err := EncodeCursor(Cursor{SequenceID: 42})
	require.NoError(t, err)

	c, err := DecodeCursor(s)
	require.NoError(t, err)
	require.Equal(t, int64(42), c.SequenceID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, in := range []string{"%%%", "bm90LWpzb24", "eyJzZXEiOjB9"} {
		_, err := DecodeCursor(in)
		require.ErrorIs(t, err, ErrInvalidCursor, in)
	}
}
