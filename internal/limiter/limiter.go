// Package limiter trims input rows before they are loaded into the grid.
package limiter

import "fmt"

// Config holds the row-limiting parameters.
type Config struct {
	Limit  int // Keep only this many rows (0 = unlimited)
	Offset int // Skip the first N rows (0 = no skip)
	Tail   int // Keep only the last N rows (0 = disabled); mutually exclusive with Limit
	// Header keeps the first row in place and limits the rows below it.
	Header bool
}

// Validate checks for conflicting flag combinations.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive reports whether any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply returns the selected rows. The result shares the backing array of
// rows unless a header is kept.
func Apply[T any](c Config, rows []T) []T {
	if !c.IsActive() || len(rows) == 0 {
		return rows
	}
	if c.Header {
		body := window(c, rows[1:])
		out := make([]T, 0, len(body)+1)
		out = append(out, rows[0])
		return append(out, body...)
	}
	return window(c, rows)
}

func window[T any](c Config, rows []T) []T {
	start, end := c.bounds(len(rows))
	return rows[start:end]
}

// bounds maps the config onto [start, end) for a slice of length n.
func (c Config) bounds(n int) (start, end int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}
