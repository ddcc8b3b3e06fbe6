package render

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type occupant struct {
	owner int
	glyph rune
}

// Grid is the single owner of cell occupancy. Streams only touch the
// screen through Write and Erase tagged with their own identifier; the
// ownership check in Erase is what keeps overlapping streams from
// clobbering each other's live glyphs.
//
// Writes and erases take effect on the surface immediately in their
// transitional style (fresh / fading); Refresh later settles them into
// the steady state in one batched pass per frame.
type Grid struct {
	surface Surface
	cells   map[Cell]occupant

	// Cells changed since the last refresh. A cell lives in at most one
	// of these at a time: writing cancels a pending removal and erasing
	// cancels a pending addition.
	added   mapset.Set[Cell]
	removed mapset.Set[Cell]
}

// NewGrid creates an empty grid over surface.
func NewGrid(surface Surface) *Grid {
	return &Grid{
		surface: surface,
		cells:   make(map[Cell]occupant),
		added:   mapset.NewThreadUnsafeSet[Cell](),
		removed: mapset.NewThreadUnsafeSet[Cell](),
	}
}

// Size returns the surface dimensions in rows, cols.
func (g *Grid) Size() (rows, cols int) {
	return g.surface.Size()
}

// Write claims cell for actorID and draws glyph there in the fresh style.
// There is no ownership check: the last writer wins, and any previous
// occupant silently loses the cell.
func (g *Grid) Write(glyph rune, cell Cell, actorID int) error {
	g.cells[cell] = occupant{owner: actorID, glyph: glyph}
	g.added.Add(cell)
	g.removed.Remove(cell)
	return g.surface.SetCell(cell, glyph, StyleFresh)
}

// Erase releases cell if actorID still owns it, restyling the glyph as
// fading until the next refresh blanks it. Erasing a vacant cell, or one
// another stream has since claimed, is a no-op: a stale cleanup must
// never destroy a newer occupant.
func (g *Grid) Erase(cell Cell, actorID int) error {
	occ, ok := g.cells[cell]
	if !ok || occ.owner != actorID {
		return nil
	}
	delete(g.cells, cell)
	g.removed.Add(cell)
	g.added.Remove(cell)
	return g.surface.SetCell(cell, occ.glyph, StyleFading)
}

// Refresh flushes the surface's batched output, then settles the pending
// sets: still-vacant removed cells are blanked and added cells are
// re-drawn in the normal style, downgrading them from fresh. Both sets
// are cleared. Iteration order is irrelevant because a cell appears in
// at most one set.
func (g *Grid) Refresh() error {
	if err := g.surface.Flush(); err != nil {
		return err
	}

	var err error
	g.removed.Each(func(cell Cell) bool {
		if _, ok := g.cells[cell]; !ok {
			err = g.surface.ClearCell(cell)
		}
		return err != nil
	})
	if err != nil {
		return err
	}
	g.removed.Clear()

	g.added.Each(func(cell Cell) bool {
		if occ, ok := g.cells[cell]; ok {
			err = g.surface.SetCell(cell, occ.glyph, StyleNormal)
		}
		return err != nil
	})
	if err != nil {
		return err
	}
	g.added.Clear()

	return nil
}

// Occupant reports the current owner and glyph of cell.
func (g *Grid) Occupant(cell Cell) (actorID int, glyph rune, ok bool) {
	occ, ok := g.cells[cell]
	return occ.owner, occ.glyph, ok
}

// OccupiedCells returns the number of cells currently owned by a stream.
func (g *Grid) OccupiedCells() int {
	return len(g.cells)
}

// Drained reports whether the grid holds no occupancy and no pending
// removals, i.e. the screen is visually clear once a final refresh runs.
func (g *Grid) Drained() bool {
	return len(g.cells) == 0 && g.removed.IsEmpty()
}
