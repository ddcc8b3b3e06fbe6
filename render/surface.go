// Package render owns the shared character grid: cell occupancy, the
// deferred-style pending sets, and the batched refresh that flushes them
// to the terminal.
package render

// Cell addresses a single glyph position on the grid.
type Cell struct {
	Row int
	Col int
}

// StyleID selects one of the surface's predefined glyph styles.
type StyleID uint8

const (
	// StyleFresh marks a glyph written since the last refresh (stream head).
	StyleFresh StyleID = iota
	// StyleNormal is the steady-state body style applied at refresh.
	StyleNormal
	// StyleFading marks a glyph queued for removal (stream tail).
	StyleFading
)

// Surface is the terminal capability the grid draws against. Writes are
// batched until Flush. Implementations report writes outside their
// dimensions as errors; the animation has no recovery path for a bad
// surface, so callers treat any error as fatal.
type Surface interface {
	SetCell(cell Cell, glyph rune, style StyleID) error
	ClearCell(cell Cell) error
	Flush() error
	Size() (rows, cols int)
}
