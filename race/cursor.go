package race

// Cursor is the current year within an inclusive [min, max] range. It
// wraps to min after max.
type Cursor struct {
	min, max, current int
}

// NewCursor starts at minYear. Inverted bounds are swapped.
func NewCursor(minYear, maxYear int) Cursor {
	if minYear > maxYear {
		minYear, maxYear = maxYear, minYear
	}
	return Cursor{min: minYear, max: maxYear, current: minYear}
}

// Advance moves to the next year and returns it.
func (c *Cursor) Advance() int {
	c.current++
	if c.current > c.max {
		c.current = c.min
	}
	return c.current
}

// Current is the year being shown.
func (c Cursor) Current() int { return c.current }

// Min is the first year of the range.
func (c Cursor) Min() int { return c.min }

// Max is the last year of the range.
func (c Cursor) Max() int { return c.max }

// Span is the number of years in the range, which is also the number of
// advances that bring the cursor back to where it started.
func (c Cursor) Span() int { return c.max - c.min + 1 }
