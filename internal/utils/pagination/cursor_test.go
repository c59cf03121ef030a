package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/utils/pagination"
)

func TestCursorRoundTrip(t *testing.T) {
	in := pagination.Cursor{SwiperID: "user-42", CreatedUnix: 1724800000123}

	token, err := pagination.Encode(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeEmptyTokenIsFirstPage(t *testing.T) {
	c, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Equal(t, pagination.Cursor{}, c)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := pagination.Decode("not base64!!!")
	assert.Error(t, err)

	// valid base64 but not a cursor payload
	_, err = pagination.Decode("bm90LWpzb24=")
	assert.Error(t, err)
}
