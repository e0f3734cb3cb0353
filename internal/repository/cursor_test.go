package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	cursor := EncodeCursor(created, "5f1c7e3a-id:with-colon")

	ts, id, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, created.Equal(ts))
	assert.Equal(t, "5f1c7e3a-id:with-colon", id)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, c := range []string{"***", "bm9jb2xvbg", "YWJjOmlk", "MTIzOg"} {
		_, _, err := DecodeCursor(c)
		assert.ErrorIs(t, err, ErrInvalidCursor, c)
	}
}
