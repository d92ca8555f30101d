package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPost_Hash(t *testing.T) {
	now := time.Now().UTC()

	base := Post{
		Slug:      "first-post",
		Title:     "My first post",
		Content:   "# Hello\n- a",
		Author:    "Ivan",
		Date:      "2025-06-30",
		Category:  "web",
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	t.Run("identical posts produce identical hashes", func(t *testing.T) {
		p1 := base
		p2 := base
		assert.Equal(t, p1.Hash(), p2.Hash())
	})

	t.Run("bookkeeping fields are ignored", func(t *testing.T) {
		p := base
		p.Version = 7
		p.UpdatedAt = now.Add(time.Hour)
		assert.Equal(t, base.Hash(), p.Hash())
	})

	t.Run("different content produces different hashes", func(t *testing.T) {
		p1 := base
		p1.Title = "Other"

		p2 := base
		p2.Content = "# Bye"

		assert.NotEqual(t, base.Hash(), p1.Hash())
		assert.NotEqual(t, base.Hash(), p2.Hash())
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		p1 := base
		p1.Author, p1.Date = "ab", "c"
		p2 := base
		p2.Author, p2.Date = "a", "bc"
		assert.NotEqual(t, p1.Hash(), p2.Hash())
	})
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("x"), ContentHash("x"))
	assert.NotEqual(t, ContentHash("x"), ContentHash("y"))
	assert.Len(t, ContentHash(""), 64)
}
