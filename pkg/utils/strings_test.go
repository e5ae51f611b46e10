package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Döner Box (Large)":     "dner-box-large",
		"Sparkling Water 0.5l":  "sparkling-water-05l",
		"  Trimmed  ":           "trimmed",
		"Already-Slugged":       "already-slugged",
		"UPPER lower ++ Mixed!": "upper-lower-mixed",
	}
	for input, want := range cases {
		require.Equal(t, want, GenerateSlug(input), input)
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()
	require.Equal(t, 5, ParseInt("5", 1))
	require.Equal(t, 1, ParseInt("", 1))
	require.Equal(t, 1, ParseInt("abc", 1))

	require.Equal(t, 2.5, ParseFloat("2.5", 0))
	require.Equal(t, 0.0, ParseFloat("", 0))
	require.Equal(t, 0.0, ParseFloat("abc", 0))
}
