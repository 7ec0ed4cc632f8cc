// Package tetris contains the logic of the game: the playfield, the active
// and queued pieces, collision, line clearing, scoring and gravity pacing.
//
// The engine is synchronous and does no I/O. Every command completes or is
// rejected within the call, and renderers only read Snapshots.
package tetris

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

var (
	MainSize    = Size2{W: 10, H: 22}
	PreviewSize = Size2{W: 4, H: 22}
)

// maxCollapsedRows is the most rows a single piece can complete.
const maxCollapsedRows = 4

var rowScores = map[int]uint64{
	1: 40,
	2: 100,
	3: 300,
	4: 1200,
}

// State is the whole game. The active piece is painted into the main grid,
// so when it can no longer fall it is already part of the stack.
type State struct {
	main     *Grid[Color]
	preview  *Grid[Color]
	queue    *Queue
	piece    Piece
	timer    *Timer
	score    uint64
	lines    int
	gameOver bool
}

type Option func(*options)

type options struct {
	rng   *rand.Rand
	clock Clock
}

// WithRand sets the random source used to draw pieces and colors.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed makes the piece sequence reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithClock sets the clock that paces gravity.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func NewState(opts ...Option) *State {
	o := &options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &State{
		main:    NewGrid[Color](MainSize),
		preview: NewGrid[Color](PreviewSize),
		queue:   NewQueue(QueueSize, o.rng),
		piece:   GeneratePiece(o.rng),
		timer:   NewTimer(o.clock),
	}
	s.redrawPreview()
	s.drawPiece(s.piece.Color)
	return s
}

func (s *State) Score() uint64             { return s.score }
func (s *State) Lines() int                { return s.lines }
func (s *State) IsGameOver() bool          { return s.gameOver }
func (s *State) Piece() Piece              { return s.piece }
func (s *State) Timer() *Timer             { return s.timer }
func (s *State) Gravity() time.Duration    { return s.timer.Threshold() }
func (s *State) Queue() []Piece            { return s.queue.Pieces() }
func (s *State) Tile(pos Pos) Color        { return s.main.Tile(pos) }
func (s *State) PreviewTile(pos Pos) Color { return s.preview.Tile(pos) }
func (s *State) PieceCells() ([]Pos, bool) { return s.piece.Cells(s.main) }
func (s *State) Size() Size2               { return s.main.Size() }

// MovePiece moves the active piece by delta. It reports false and leaves
// the state untouched when the piece would leave the board or overlap the
// stack.
func (s *State) MovePiece(delta DeltaPos) bool {
	if s.gameOver {
		return false
	}
	moved, ok := s.piece.moved(delta)
	if !ok {
		return false
	}
	return s.commit(moved)
}

// RotatePiece rotates the active piece clockwise. There are no wall kicks,
// a rotation that doesn't fit in place fails.
func (s *State) RotatePiece() bool {
	if s.gameOver {
		return false
	}
	rotated := s.piece
	rotated.Template = rotated.Template.RotateRight()
	return s.commit(rotated)
}

// RotatePieceLeft rotates the active piece counter-clockwise.
func (s *State) RotatePieceLeft() bool {
	if s.gameOver {
		return false
	}
	rotated := s.piece
	rotated.Template = rotated.Template.RotateLeft()
	return s.commit(rotated)
}

// HardDrop moves the piece down until it rests and returns the rows fallen.
func (s *State) HardDrop() int {
	var rows int
	for s.MovePiece(Down) {
		rows++
	}
	return rows
}

// SpawnPiece takes the next piece from the queue and makes it the active
// one. When it doesn't fit on the board the game is over and it reports
// false. The previous piece stays on the stack.
func (s *State) SpawnPiece() bool {
	if s.gameOver {
		return false
	}
	next := s.queue.Next()
	s.redrawPreview()

	cells, ok := next.Cells(s.main)
	if !ok || slices.ContainsFunc(cells, func(p Pos) bool { return !s.main.Tile(p).IsEmpty() }) {
		s.gameOver = true
		return false
	}
	s.piece = next
	s.drawPiece(s.piece.Color)
	return true
}

// CollapseRows removes every complete row, scores them and speeds up
// gravity. It is meant to run after the active piece locked in and
// returns how many rows were removed.
func (s *State) CollapseRows() int {
	filled := s.filledRows()
	cleared := len(filled)
	if cleared > 0 {
		s.timer.LowerThreshold()
	}
	s.score += rowScores[cleared]
	s.lines += cleared

	// remove from the bottom up. every removal moves the rows above it one
	// index down, so the pending ones are shifted to follow their content.
	for len(filled) > 0 {
		row := filled[len(filled)-1]
		filled = filled[:len(filled)-1]
		s.removeRow(row)
		for i := range filled {
			filled[i]++
		}
	}
	return cleared
}

func (s *State) commit(candidate Piece) bool {
	if !s.isInside(candidate) || s.isColliding(candidate) {
		return false
	}
	s.drawPiece(Empty)
	s.piece = candidate
	s.drawPiece(s.piece.Color)
	return true
}

// isInside checks the candidate against the board bounds only.
func (s *State) isInside(p Piece) bool {
	_, ok := p.Cells(s.main)
	return ok
}

// isColliding reports whether the candidate overlaps the stack. The cells
// of the active piece are ignored since it is painted on the grid. If
// either placement can't be computed it counts as a collision.
func (s *State) isColliding(candidate Piece) bool {
	oldCells, okOld := s.piece.Cells(s.main)
	newCells, okNew := candidate.Cells(s.main)
	if !okOld || !okNew {
		return true
	}
	for _, p := range newCells {
		if slices.Contains(oldCells, p) {
			continue
		}
		if !s.main.Tile(p).IsEmpty() {
			return true
		}
	}
	return false
}

func (s *State) drawPiece(c Color) {
	cells, ok := s.piece.Cells(s.main)
	if !ok {
		return
	}
	for _, p := range cells {
		s.main.SetTile(p, c)
	}
}

func (s *State) filledRows() []uint {
	rows := make([]uint, 0, maxCollapsedRows)
	for y := range s.main.Size().H {
		if s.isRowFilled(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

func (s *State) isRowFilled(y uint) bool {
	return !slices.ContainsFunc(s.main.Row(y), Color.IsEmpty)
}

// removeRow drops every row above y by one and empties the top row.
func (s *State) removeRow(y uint) {
	w := s.main.Size().W
	for row := y; row > 0; row-- {
		for x := range w {
			s.main.SetTile(Pos{X: x, Y: row}, s.main.Tile(Pos{X: x, Y: row - 1}))
		}
	}
	for x := range w {
		s.main.SetTile(Pos{X: x, Y: 0}, Empty)
	}
}

// redrawPreview lays the queue out top to bottom on the preview panel.
func (s *State) redrawPreview() {
	s.preview.Fill(Preview)
	var bottom uint = 1
	for _, p := range s.queue.Pieces() {
		// the I shape has no cell above its anchor.
		if p.Template.Kind == I {
			bottom--
		}
		p.Pos = Pos{X: 1, Y: bottom}
		cells, ok := p.Cells(s.preview)
		if !ok {
			panic(fmt.Sprintf("queued %v piece doesn't fit the preview at row %d", p.Template.Kind, bottom))
		}
		var lowest uint
		for _, c := range cells {
			s.preview.SetTile(c, p.Color)
			lowest = max(lowest, c.Y)
		}
		bottom = lowest + 3
	}
}
