package tetris

import "math/rand/v2"

// Kind is one of the seven canonical shapes.
type Kind uint8

const (
	I Kind = iota
	T
	O
	J
	L
	S
	Z
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

var kindNames = [...]string{"I", "T", "O", "J", "L", "S", "Z"}

// Template is the 4 cell offset pattern of a shape. Templates are values,
// rotating one returns a new Template.
type Template struct {
	Cells [4]DeltaPos
	Kind  Kind
}

/*
.	Anchor is (0,0), marked A.

.	I		T		O		J		L		S		Z
.	. . . .		. X .		. X X		X . .		. . X		. X X		X X .
.	X A X X		X A X		. A X		X A X		X A X		X A .		. A X
*/
var templates = [...]Template{
	I: {Cells: [4]DeltaPos{{-1, 0}, {0, 0}, {1, 0}, {2, 0}}, Kind: I},
	T: {Cells: [4]DeltaPos{{0, -1}, {-1, 0}, {0, 0}, {1, 0}}, Kind: T},
	O: {Cells: [4]DeltaPos{{0, -1}, {1, -1}, {0, 0}, {1, 0}}, Kind: O},
	J: {Cells: [4]DeltaPos{{-1, -1}, {-1, 0}, {0, 0}, {1, 0}}, Kind: J},
	L: {Cells: [4]DeltaPos{{1, -1}, {-1, 0}, {0, 0}, {1, 0}}, Kind: L},
	S: {Cells: [4]DeltaPos{{0, -1}, {1, -1}, {-1, 0}, {0, 0}}, Kind: S},
	Z: {Cells: [4]DeltaPos{{-1, -1}, {0, -1}, {0, 0}, {1, 0}}, Kind: Z},
}

// NewTemplate returns the spawn orientation of kind k.
func NewTemplate(k Kind) Template {
	return templates[k]
}

// GenerateTemplate picks one of the seven shapes uniformly.
func GenerateTemplate(rng *rand.Rand) Template {
	return templates[rng.IntN(len(templates))]
}

// RotateRight rotates the template clockwise.
func (t Template) RotateRight() Template {
	// the O shape doesn't rotate.
	if t.Kind == O {
		return t
	}
	for i, c := range t.Cells {
		t.Cells[i] = DeltaPos{DX: c.DY, DY: -c.DX}
	}
	return t
}

// RotateLeft rotates the template counter-clockwise.
func (t Template) RotateLeft() Template {
	if t.Kind == O {
		return t
	}
	for i, c := range t.Cells {
		t.Cells[i] = DeltaPos{DX: -c.DY, DY: c.DX}
	}
	return t
}
