package tetris

import "math/rand/v2"

// SpawnPos is where new pieces are anchored on the main board.
var SpawnPos = Pos{X: 4, Y: 1}

// Piece is a Template anchored at a board position with a color.
type Piece struct {
	Template Template
	Pos      Pos
	Color    Color
}

// GeneratePiece returns a random shape and color at the spawn position.
func GeneratePiece(rng *rand.Rand) Piece {
	return Piece{
		Template: GenerateTemplate(rng),
		Pos:      SpawnPos,
		Color:    GenerateColor(rng),
	}
}

// Cells returns the absolute positions the piece would occupy on g.
// It returns false when any cell falls outside of g, including negative
// coordinates. This is the only place where template offsets are applied.
func (p Piece) Cells(g *Grid[Color]) ([]Pos, bool) {
	cells := make([]Pos, 0, len(p.Template.Cells))
	for _, d := range p.Template.Cells {
		x := int(p.Pos.X) + d.DX
		y := int(p.Pos.Y) + d.DY
		if x < 0 || y < 0 {
			return nil, false
		}
		pos := Pos{X: uint(x), Y: uint(y)}
		if !g.IsInside(pos) {
			return nil, false
		}
		cells = append(cells, pos)
	}
	return cells, true
}

// moved returns a copy of p translated by d. Every template holds its
// anchor cell, so an anchor with a negative coordinate is never a legal
// placement and is reported as false.
func (p Piece) moved(d DeltaPos) (Piece, bool) {
	x := int(p.Pos.X) + d.DX
	y := int(p.Pos.Y) + d.DY
	if x < 0 || y < 0 {
		return p, false
	}
	p.Pos = Pos{X: uint(x), Y: uint(y)}
	return p, true
}
