package urlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com", CompleteURL("api.example.com"))
	assert.Equal(t, "http://localhost:8080", CompleteURL(":8080"))
	assert.Equal(t, "http://api.example.com", CompleteURL("http://api.example.com"))
}

func TestCompleteURLIdempotent(t *testing.T) {
	for _, in := range []string{"api.example.com", ":8080", "http://x"} {
		once := CompleteURL(in)
		twice := CompleteURL(once)
		assert.Equal(t, once, twice)
	}
}

func TestFullURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/users", FullURL("api.example.com", "users"))
	assert.Equal(t, "https://api.example.com/users", FullURL("", "api.example.com/users"))
}

func TestComputedURLsEmptyURL(t *testing.T) {
	urls := ComputedURLs(nil, "", nil)
	assert.Empty(t, urls)
}

func TestComputedURLsNoGroups(t *testing.T) {
	urls := ComputedURLs(nil, "https://h/u", nil)
	assert.Equal(t, []string{"https://h/u"}, urls)
}

func TestComputedURLsCartesianDedup(t *testing.T) {
	groups := []map[string]string{
		{"id": "1"},
		{"id": "1"},
		{"id": "2"},
	}
	urls := ComputedURLs(groups, "https://h/u/{id}", nil)
	assert.Equal(t, []string{"https://h/u/1", "https://h/u/2"}, urls)
}
