// Package terminal adapts a tcell screen to the render surface
// capability and handles session acquisition, restore, and non-blocking
// exit polling.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/averykhoo/matrix-screen/render"
)

// Screen wraps a tcell.Screen as a render.Surface with a fixed style
// palette and a non-blocking exit poll. Dimensions are captured once at
// Init; the grid is fixed-size by design, so later resizes only clip.
type Screen struct {
	screen     tcell.Screen
	rows, cols int
	styles     [3]tcell.Style
	events     chan tcell.Event
}

// New allocates a screen adapter over the real terminal.
func New() (*Screen, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return &Screen{screen: sc}, nil
}

// NewWith wraps an existing tcell screen. Tests pass a simulation screen.
func NewWith(sc tcell.Screen) *Screen {
	return &Screen{screen: sc}
}

// Init acquires the terminal: raw mode, hidden cursor, the three-tier
// color palette, and an event pump goroutine whose only job is to feed
// the poll channel.
func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal: init: %w", err)
	}

	s.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	s.screen.HideCursor()
	s.screen.Clear()

	s.cols, s.rows = s.screen.Size()

	s.styles[render.StyleFresh] = tcell.StyleDefault.
		Foreground(tcell.ColorWhite).Background(tcell.ColorTeal)
	s.styles[render.StyleNormal] = tcell.StyleDefault.
		Foreground(tcell.ColorAqua).Background(tcell.ColorBlack)
	s.styles[render.StyleFading] = tcell.StyleDefault.
		Foreground(tcell.ColorBlue).Background(tcell.ColorBlack)

	s.events = make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			s.events <- ev
		}
	}()

	return nil
}

// Fini releases the terminal, restoring cooked mode and the cursor.
func (s *Screen) Fini() {
	s.screen.Fini()
}

// SetCell draws glyph at cell in the given style. Writing outside the
// captured dimensions is an error; the caller has no recovery path for
// a corrupted session and should terminate.
func (s *Screen) SetCell(cell render.Cell, glyph rune, style render.StyleID) error {
	if err := s.check(cell); err != nil {
		return err
	}
	s.screen.SetContent(cell.Col, cell.Row, glyph, nil, s.styles[style])
	return nil
}

// ClearCell blanks cell back to the default background.
func (s *Screen) ClearCell(cell render.Cell) error {
	if err := s.check(cell); err != nil {
		return err
	}
	s.screen.SetContent(cell.Col, cell.Row, ' ', nil, tcell.StyleDefault)
	return nil
}

// Flush pushes all batched cell updates to the terminal.
func (s *Screen) Flush() error {
	s.screen.Show()
	return nil
}

// Size returns the grid dimensions captured at Init, in rows, cols.
func (s *Screen) Size() (rows, cols int) {
	return s.rows, s.cols
}

// ExitRequested drains any pending events without blocking. Any key
// press requests exit; resize events are consumed so the channel never
// backs up.
func (s *Screen) ExitRequested() bool {
	for {
		select {
		case ev := <-s.events:
			switch ev.(type) {
			case *tcell.EventKey:
				return true
			case *tcell.EventResize:
				s.screen.Sync()
			}
		default:
			return false
		}
	}
}

func (s *Screen) check(cell render.Cell) error {
	if cell.Row < 0 || cell.Row >= s.rows || cell.Col < 0 || cell.Col >= s.cols {
		return fmt.Errorf("terminal: cell (%d,%d) outside %dx%d grid",
			cell.Row, cell.Col, s.rows, s.cols)
	}
	return nil
}
