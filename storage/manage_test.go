package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionKey(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	key := SubmissionKey("s1", "a1", "My Essay (final).PDF", now)
	assert.Equal(t, "submissions/a1/s1/1735787045-my_essay_final.pdf", key)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("x/y.pdf"))
	assert.Equal(t, "application/octet-stream", contentType("x/y"))
}
