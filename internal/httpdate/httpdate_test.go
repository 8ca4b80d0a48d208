package httpdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	moment := time.Date(2024, time.March, 7, 16, 45, 9, 0, time.UTC)
	rendered := Format(moment)
	require.Equal(t, "Thu, 07 Mar 2024 16:45:09 GMT", rendered)

	parsed, err := Parse(rendered)
	require.NoError(t, err)
	require.True(t, parsed.Equal(moment))

	require.Equal(t, rendered, string(Append(nil, moment)))
}

func TestParseLegacyLayouts(t *testing.T) {
	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	for _, value := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		parsed, err := Parse(value)
		require.NoError(t, err, value)
		require.True(t, parsed.Equal(want), value)
	}
}

func TestParseGarbage(t *testing.T) {
	for _, value := range []string{"", "yesterday", "06.11.1994", "Sun, 06 Nov 1994 08:49:37 CET"} {
		_, err := Parse(value)
		require.ErrorIs(t, err, ErrBadDate, value)
	}
}
