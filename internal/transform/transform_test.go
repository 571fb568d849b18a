package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		chain     string
		input    string
		expected string
	}{
		{"None", "none", "http://a.com", "http://a.com"},
		{"Upper", "upper", "http://www.asp.net", "HTTP://WWW.ASP.NET"},
		{"Lower", "LOWER", "HTTP://A.COM", "http://a.com"},
		{"Title", "title", "hello world", "Hello World"},
		{"StripScheme", "strip-scheme", "https://example.com/x", "example.com/x"},
		{"StripSchemeUppercase", "strip-scheme", "HTTP://EXAMPLE.COM", "EXAMPLE.COM"},
		{"Truncate", "truncate:10", "https://example.com/long", "https:/..."},
		{"TruncateShortInput", "truncate:10", "a@b.co", "a@b.co"},
		{"Chain", "strip-scheme | truncate:8", "https://example.com", "examp..."},
		{"ChainOrderMatters", "truncate:8|upper", "https://example.com", "HTTPS..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fn, err := Parse(tt.chain)
			require.NoError(t, err)
			require.NotNil(t, fn)
			assert.Equal(t, tt.expected, fn(tt.input))
		})
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()
	fn, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, fn)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chain    string
		message string
	}{
		{"shout", "unknown transform"},
		{"upper:3", "takes no argument"},
		{"truncate", "needs a length"},
		{"truncate:abc", "needs a length"},
		{"truncate:2", "needs a length"},
		{"upper|nope", "unknown transform"},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			t.Parallel()
			fn, err := Parse(tt.chain)
			require.Error(t, err)
			assert.Nil(t, fn)
			assert.Contains(t, err.Error(), tt.message)
			assert.Error(t, Validate(tt.chain))
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"lower", "none", "strip-scheme", "title", "truncate", "upper"}, Names())
}
