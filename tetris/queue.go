package tetris

import "math/rand/v2"

// QueueSize is the number of upcoming pieces shown to the player.
const QueueSize = 3

// Queue is a fixed length lookahead of upcoming pieces. Taking the front
// piece always appends a freshly generated one at the back.
type Queue struct {
	pieces []Piece
	rng    *rand.Rand
}

func NewQueue(size int, rng *rand.Rand) *Queue {
	q := &Queue{pieces: make([]Piece, 0, size), rng: rng}
	for range size {
		q.pieces = append(q.pieces, GeneratePiece(rng))
	}
	return q
}

// Next pops the front piece and refills the back.
func (q *Queue) Next() Piece {
	next := q.pieces[0]
	copy(q.pieces, q.pieces[1:])
	q.pieces[len(q.pieces)-1] = GeneratePiece(q.rng)
	return next
}

func (q *Queue) Len() int { return len(q.pieces) }

// Pieces returns a copy of the upcoming pieces, front first.
func (q *Queue) Pieces() []Piece {
	out := make([]Piece, len(q.pieces))
	copy(out, q.pieces)
	return out
}
