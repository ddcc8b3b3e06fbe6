// Package stream implements the falling-text actor: a small state
// machine that owns one stream's glyph queue, position, and the sliding
// window of cells it has on screen.
package stream

import (
	"math/rand/v2"

	"github.com/averykhoo/matrix-screen/content"
	"github.com/averykhoo/matrix-screen/render"
)

// State is the phase of a stream's lifecycle.
type State uint8

const (
	// StateInit samples a fresh line and spawn position.
	StateInit State = iota
	// StateWrite emits one glyph per step at the current position.
	StateWrite
	// StateErase sheds the oldest cell per step until the trail is gone.
	StateErase
	// StateExit drains the trail at triple speed; entered only on
	// shutdown and never left.
	StateExit
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateWrite:
		return "write"
	case StateErase:
		return "erase"
	case StateExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Direction is the per-step displacement of a stream. DX moves the
// column, DY the row; exactly one of them is nonzero in a supported
// configuration, giving a single-axis fall.
type Direction struct {
	DX int
	DY int
}

// Actor drives one falling text stream. It owns its position, glyph
// queue, and occupied-cell window outright; the only way it touches
// shared state is through grid writes and erases tagged with its id.
type Actor struct {
	id     int
	dir    Direction
	maxLen int

	library *content.Library
	rng     *rand.Rand

	glyphs   []rune
	row, col int
	cells    []render.Cell
	state    State
}

// New creates an actor in the init state. rng must be the shared seedable
// source so runs are reproducible under a fixed seed.
func New(id int, dir Direction, maxLen int, library *content.Library, rng *rand.Rand) *Actor {
	return &Actor{
		id:      id,
		dir:     dir,
		maxLen:  maxLen,
		library: library,
		rng:     rng,
		state:   StateInit,
	}
}

// ID returns the actor's identifier, which tags its grid writes.
func (a *Actor) ID() int { return a.id }

// State returns the current lifecycle state.
func (a *Actor) State() State { return a.state }

// Occupied returns a copy of the actor's currently occupied cells,
// oldest first.
func (a *Actor) Occupied() []render.Cell {
	out := make([]render.Cell, len(a.cells))
	copy(out, a.cells)
	return out
}

// Retire moves the actor to the exit state for shutdown draining. The
// transition is one-way: an exiting actor never respawns.
func (a *Actor) Retire() {
	a.state = StateExit
}

// Step advances the actor by one scheduled tick against g. State
// fallthroughs happen within the same step, so a respawn or an
// empty-queue transition never wastes a frame. The first surface error
// aborts the step.
func (a *Actor) Step(g *render.Grid) error {
	if a.state == StateInit {
		rows, cols := g.Size()
		a.glyphs = printableASCII(a.library.Sample(a.rng))
		a.row = a.rng.IntN(rows)
		a.col = a.rng.IntN(cols)
		a.cells = a.cells[:0]
		a.state = StateWrite
	}

	if a.state == StateWrite {
		if len(a.glyphs) > 0 {
			glyph := a.glyphs[0]
			a.glyphs = a.glyphs[1:]

			cell := render.Cell{Row: a.row, Col: a.col}
			if err := g.Write(glyph, cell, a.id); err != nil {
				return err
			}
			a.cells = append(a.cells, cell)

			rows, cols := g.Size()
			a.advance(rows, cols)

			if len(a.cells) > a.maxLen {
				oldest := a.cells[0]
				a.cells = a.cells[1:]
				if err := g.Erase(oldest, a.id); err != nil {
					return err
				}
			}
		} else {
			a.state = StateErase
		}
	}

	if a.state == StateErase {
		if len(a.cells) > 0 {
			oldest := a.cells[0]
			a.cells = a.cells[1:]
			if err := g.Erase(oldest, a.id); err != nil {
				return err
			}
		}
		if len(a.cells) == 0 {
			a.state = StateInit
		}
	}

	if a.state == StateExit {
		// Shed two cells from the tail end and one from the head end so
		// shutdown clears the screen in bounded time.
		for i := 0; i < 2 && len(a.cells) > 0; i++ {
			oldest := a.cells[0]
			a.cells = a.cells[1:]
			if err := g.Erase(oldest, a.id); err != nil {
				return err
			}
		}
		if len(a.cells) > 0 {
			newest := a.cells[len(a.cells)-1]
			a.cells = a.cells[:len(a.cells)-1]
			if err := g.Erase(newest, a.id); err != nil {
				return err
			}
		}
	}

	return nil
}

// advance moves the position by the direction vector and applies the
// wrap rule to whichever axis the vector moves: the exiting coordinate
// wraps modulo its axis size and the orthogonal coordinate is
// re-randomized so streams do not reappear along a visible seam.
func (a *Actor) advance(rows, cols int) {
	a.col += a.dir.DX
	a.row += a.dir.DY

	switch {
	case a.dir.DY != 0:
		if a.row < 0 || a.row >= rows {
			a.row = wrap(a.row, rows)
			a.col = a.rng.IntN(cols)
		}
	case a.dir.DX != 0:
		if a.col < 0 || a.col >= cols {
			a.col = wrap(a.col, cols)
			a.row = a.rng.IntN(rows)
		}
	}
}

// wrap is a floored modulo, so negative coordinates re-enter from the
// far edge.
func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// printableASCII filters s to printable ASCII glyphs in order. The
// result may be empty; the actor then legitimately writes nothing and
// respawns.
func printableASCII(s string) []rune {
	glyphs := make([]rune, 0, len(s))
	for _, r := range s {
		if r > 32 && r < 127 {
			glyphs = append(glyphs, r)
		}
	}
	return glyphs
}
