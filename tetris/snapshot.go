package tetris

import "time"

// Snapshot is a read-only copy of the State taken between two commands.
type Snapshot struct {
	// Main is the playfield with the active piece already painted on it.
	Main    *Grid[Color]
	Preview *Grid[Color]

	// Piece holds the absolute cells of the active piece.
	Piece      []Pos
	PieceColor Color
	Kind       Kind

	Score    uint64
	Lines    int
	Gravity  time.Duration
	GameOver bool
}

func (s *State) Snapshot() *Snapshot {
	cells, _ := s.PieceCells()
	return &Snapshot{
		Main:       s.main.Clone(),
		Preview:    s.preview.Clone(),
		Piece:      cells,
		PieceColor: s.piece.Color,
		Kind:       s.piece.Template.Kind,
		Score:      s.score,
		Lines:      s.lines,
		Gravity:    s.timer.Threshold(),
		GameOver:   s.gameOver,
	}
}
