package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("append and skip", func(t *testing.T) {
		buff := New(8, 64)
		require.True(t, buff.Append([]byte("GET / HT")))
		require.True(t, buff.Append([]byte("TP/1.1\r\n")))
		require.Equal(t, "GET / HTTP/1.1\r\n", string(buff.Bytes()))

		buff.Skip(4)
		require.Equal(t, "/ HTTP/1.1\r\n", string(buff.Bytes()))
		require.Equal(t, 12, buff.Len())

		buff.Skip(100)
		require.Zero(t, buff.Len())
	})

	t.Run("overflow leaves contents untouched", func(t *testing.T) {
		buff := New(4, 10)
		require.True(t, buff.Append([]byte("abcde")))
		require.False(t, buff.Append([]byte(strings.Repeat("x", 6))))
		require.Equal(t, "abcde", string(buff.Bytes()))
		require.True(t, buff.Append([]byte("fghij")))
	})

	t.Run("skip of nothing", func(t *testing.T) {
		buff := New(4, 10)
		buff.Skip(0)
		buff.Skip(-1)
		require.Zero(t, buff.Len())
		buff.Clear()
		require.Zero(t, buff.Len())
	})
}
