package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor(12345)
	require.NotEmpty(t, cursor)

	id, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)
}

func TestEncodeCursor_ZeroIsEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(0))
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty cursor starts at zero", func(t *testing.T) {
		id, err := DecodeCursor("")
		require.NoError(t, err)
		assert.Equal(t, int64(0), id)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := DecodeCursor("not-base64!!")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("rejects non-numeric payload", func(t *testing.T) {
		cursor := base64.StdEncoding.EncodeToString([]byte("abc"))
		_, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("rejects negative payload", func(t *testing.T) {
		cursor := base64.StdEncoding.EncodeToString([]byte("-5"))
		_, err := DecodeCursor(cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}
