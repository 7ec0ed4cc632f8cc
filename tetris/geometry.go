package tetris

// Size2 is the size of a grid in cells.
type Size2 struct {
	W, H uint
}

// Pos is an absolute cell position. Columns are 0 > W-1 left to right and
// represent the X axis, rows are 0 > H-1 top to bottom and represent the Y axis.
type Pos struct {
	X, Y uint
}

// DeltaPos is a signed offset. It is used both for movements and for the
// cells of a Template relative to its anchor.
type DeltaPos struct {
	DX, DY int
}

var (
	Left  = DeltaPos{DX: -1}
	Right = DeltaPos{DX: 1}
	Down  = DeltaPos{DY: 1}
)
