package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCEP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"01310-100", "01310100"},
		{"01310100", "01310100"},
		{"  01.310-100 ", "01310100"},
		{"0131", "0131"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCEP(tc.in), "input %q", tc.in)
	}
}

func TestCompleteCEP(t *testing.T) {
	assert.True(t, CompleteCEP("01310100"))
	assert.False(t, CompleteCEP("0131010"))
	assert.False(t, CompleteCEP("013101000"))
	assert.False(t, CompleteCEP(""))
}

func TestFormatCEP(t *testing.T) {
	assert.Equal(t, "01310-100", FormatCEP("01310100"))
	assert.Equal(t, "0131", FormatCEP("0131"))
}
