package remote

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"blockdrop/tetris"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// cellCodes encodes one cell per byte, indexed by tetris.Color.
const cellCodes = ".RGBYMCW#"

var errMalformed = errors.New("malformed snapshot")

// EncodeAction wraps an action for the wire.
func EncodeAction(a tetris.Action) *wrapperspb.StringValue {
	return wrapperspb.String(string(a))
}

// DecodeAction validates an action received from a client.
func DecodeAction(v *wrapperspb.StringValue) (tetris.Action, error) {
	return tetris.ParseAction(v.GetValue())
}

func EncodeSnapshot(s *tetris.Snapshot) (*structpb.Struct, error) {
	piece := make([]any, 0, len(s.Piece))
	for _, p := range s.Piece {
		piece = append(piece, []any{p.X, p.Y})
	}
	return structpb.NewStruct(map[string]any{
		"main":        encodeGrid(s.Main),
		"preview":     encodeGrid(s.Preview),
		"piece":       piece,
		"piece_color": s.PieceColor.String(),
		"kind":        s.Kind.String(),
		"score":       s.Score,
		"lines":       s.Lines,
		"gravity_ms":  s.Gravity.Milliseconds(),
		"game_over":   s.GameOver,
	})
}

func DecodeSnapshot(msg *structpb.Struct) (*tetris.Snapshot, error) {
	f := msg.GetFields()
	main, err := decodeGrid(f["main"])
	if err != nil {
		return nil, fmt.Errorf("main: %w", err)
	}
	preview, err := decodeGrid(f["preview"])
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	var piece []tetris.Pos
	for _, v := range f["piece"].GetListValue().GetValues() {
		xy := v.GetListValue().GetValues()
		if len(xy) != 2 {
			return nil, fmt.Errorf("piece cell %v: %w", v, errMalformed)
		}
		x, err := coord(xy[0])
		if err != nil {
			return nil, fmt.Errorf("piece cell x: %w", err)
		}
		y, err := coord(xy[1])
		if err != nil {
			return nil, fmt.Errorf("piece cell y: %w", err)
		}
		piece = append(piece, tetris.Pos{X: x, Y: y})
	}
	color, err := parseColor(f["piece_color"].GetStringValue())
	if err != nil {
		return nil, err
	}
	kind, err := parseKind(f["kind"].GetStringValue())
	if err != nil {
		return nil, err
	}
	return &tetris.Snapshot{
		Main:       main,
		Preview:    preview,
		Piece:      piece,
		PieceColor: color,
		Kind:       kind,
		Score:      uint64(f["score"].GetNumberValue()),
		Lines:      int(f["lines"].GetNumberValue()),
		Gravity:    time.Duration(f["gravity_ms"].GetNumberValue()) * time.Millisecond,
		GameOver:   f["game_over"].GetBoolValue(),
	}, nil
}

func encodeGrid(g *tetris.Grid[tetris.Color]) []any {
	size := g.Size()
	rows := make([]any, 0, size.H)
	var sb strings.Builder
	for y := range size.H {
		sb.Reset()
		for _, c := range g.Row(y) {
			sb.WriteByte(cellCodes[c])
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func decodeGrid(v *structpb.Value) (*tetris.Grid[tetris.Color], error) {
	rows := v.GetListValue().GetValues()
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows: %w", errMalformed)
	}
	w := len(rows[0].GetStringValue())
	g := tetris.NewGrid[tetris.Color](tetris.Size2{W: uint(w), H: uint(len(rows))})
	for y, r := range rows {
		row := r.GetStringValue()
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, wanted %d: %w", y, len(row), w, errMalformed)
		}
		for x := range len(row) {
			i := strings.IndexByte(cellCodes, row[x])
			if i < 0 {
				return nil, fmt.Errorf("unknown cell %q at %d,%d: %w", row[x], x, y, errMalformed)
			}
			g.SetTile(tetris.Pos{X: uint(x), Y: uint(y)}, tetris.Color(i))
		}
	}
	return g, nil
}

// coord reads a board coordinate, which must be a whole non-negative number.
func coord(v *structpb.Value) (uint, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("bad coordinate %v: %w", v, errMalformed)
	}
	return uint(n.NumberValue), nil
}

func parseColor(s string) (tetris.Color, error) {
	for c := tetris.Empty; c <= tetris.Preview; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return tetris.Empty, fmt.Errorf("unknown color %q: %w", s, errMalformed)
}

func parseKind(s string) (tetris.Kind, error) {
	for k := tetris.I; k <= tetris.Z; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return tetris.I, fmt.Errorf("unknown kind %q: %w", s, errMalformed)
}
