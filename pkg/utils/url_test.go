package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashKeyIsStable(t *testing.T) {
	assert.Equal(t, HashKey("visitor-1"), HashKey("visitor-1"))
	assert.NotEqual(t, HashKey("visitor-1"), HashKey("visitor-2"))
	assert.Len(t, HashKey("x"), 64)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://example.com", JoinURL("https://example.com", ""))
	assert.Equal(t, "https://example.com/pricing", JoinURL("https://example.com", "/pricing"))
	assert.Equal(t, "https://example.com/faq", JoinURL("https://example.com", "faq"))
}

func TestSameURL(t *testing.T) {
	assert.True(t, SameURL("https://Example.com/zh/", "https://example.com/zh"))
	assert.True(t, SameURL("https://example.com", "https://example.com/"))
	assert.False(t, SameURL("https://example.com/zh", "https://example.com/ja"))
	assert.False(t, SameURL("http://example.com", "https://example.com"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/zh/pricing")
	abs, err := ToAbsoluteURL(base, "/zh")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/zh", abs)
}
