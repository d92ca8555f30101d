package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDateExpr parses relative ("3d", "2w", "1mo", "1y") and absolute
// ("2006-01-02", RFC3339) date expressions. Relative values count back
// from now.
func parseDateExpr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}

	suffixes := []struct {
		suffix string
		apply  func(int) time.Time
	}{
		{"mo", func(n int) time.Time { return now.AddDate(0, -n, 0) }},
		{"y", func(n int) time.Time { return now.AddDate(-n, 0, 0) }},
		{"w", func(n int) time.Time { return now.AddDate(0, 0, -7*n) }},
		{"d", func(n int) time.Time { return now.AddDate(0, 0, -n) }},
	}
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			numStr := strings.TrimSuffix(s, sfx.suffix)
			if n, err := strconv.Atoi(numStr); err == nil && n >= 0 {
				return sfx.apply(n), nil
			}
			return time.Time{}, fmt.Errorf("invalid %s offset: %q", sfx.suffix, s)
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date expression: %q", s)
}

// NormalizeDateRange parses since/until (empty allowed) into YYYY-MM-DD
// bounds, swapping them if reversed.
func NormalizeDateRange(since, until string) (string, string, error) {
	return normalizeDateRange(since, until, time.Now())
}

func normalizeDateRange(since, until string, now time.Time) (string, string, error) {
	var s, u time.Time
	var err error

	if since != "" {
		if s, err = parseDateExpr(since, now); err != nil {
			return "", "", fmt.Errorf("invalid since: %w", err)
		}
	}
	if until != "" {
		if u, err = parseDateExpr(until, now); err != nil {
			return "", "", fmt.Errorf("invalid until: %w", err)
		}
	}
	if !s.IsZero() && !u.IsZero() && s.After(u) {
		s, u = u, s
	}

	var sStr, uStr string
	if !s.IsZero() {
		sStr = s.Format("2006-01-02")
	}
	if !u.IsZero() {
		uStr = u.Format("2006-01-02")
	}
	return sStr, uStr, nil
}
