package db

import (
	"context"
	"errors"

	"github.com/mithrel/folio/pkg/api"
)

// DemoPosts are the posts a fresh installation starts with.
func DemoPosts() []api.Post {
	return []api.Post{
		{
			Slug:     "first-post",
			Title:    "My first post",
			Content:  "This is the content of my first post. Lots of interesting text about web development here!",
			Author:   "Ivan Ivanov",
			Date:     "2025-06-30",
			Category: "Web development",
		},
		{
			Slug:     "fastapi-and-nextjs",
			Title:    "FastAPI + Next.js = ❤️",
			Content:  "# A modern stack\n\nPairing an async API backend with a server-rendered frontend is a powerful combination.\n\n## Why it works\n- async request handling\n- fast page rendering\n- one language per side\n\n> Pick tools that get out of your way.",
			Author:   "Petr Petrov",
			Date:     "2025-05-30",
			Category: "Backend development",
		},
		{
			Slug:     "why-i-love-python",
			Title:    "Why I love Python",
			Content:  "Python has a simple syntax and a huge ecosystem.\n\n### Good for\n1. backends\n2. data analysis\n3. much more\n\n```print(\"hello\")",
			Author:   "Sergey Sergeev",
			Date:     "2025-07-30",
			Category: "Python development",
		},
	}
}

// Seed inserts DemoPosts when the store holds no posts. It reports how many
// posts were created.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, _, err := s.ListPosts(ctx, api.ListQuery{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	err = RunInTx(ctx, s, func(ctx context.Context) error {
		for _, p := range DemoPosts() {
			if _, err := s.CreatePost(ctx, p); err != nil && !errors.Is(err, ErrConflict) {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
