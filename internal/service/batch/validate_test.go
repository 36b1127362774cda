package batch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchable(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{value: "http://example.com/a.jpg", expected: true},
		{value: "https://example.com/a.jpg", expected: true},
		{value: "http:relative-ish", expected: true},
		{value: "HTTP://example.com", expected: false},
		{value: " http://example.com", expected: false},
		{value: "ftp://example.com/a.jpg", expected: false},
		{value: "example.com/a.jpg", expected: false},
		{value: "", expected: false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, Fetchable(tc.value), "value: %q", tc.value)
	}
}
