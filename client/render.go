package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"

	"blockdrop/tetris"
)

const (
	// ASCII colors.
	Red     = "31"
	Green   = "32"
	Yellow  = "33"
	Blue    = "34"
	Magenta = "35"
	Cyan    = "36"
	White   = "37"

	resetPos    = "\033[H"  // Reset cursor position to 0,0
	clearScreen = "\033[2J" // Clear the whole screen

	lobbyWidth = 38
	lobbyRow   = 10
	lobbyCol   = 2
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Color]string{
	tetris.Red:     Red,
	tetris.Green:   Green,
	tetris.Yellow:  Yellow,
	tetris.Blue:    Blue,
	tetris.Magenta: Magenta,
	tetris.Cyan:    Cyan,
	tetris.White:   White,
}

// message is a lobby text, one entry per line.
type message []string

func defaultLobby() message {
	return message{"Welcome to Terminal Tetris", "", "(p)lay   (o)nline   (q)uit"}
}

func gameOver(score uint64) message {
	return message{"Game Over :)", fmt.Sprintf("score %d", score), "(p)lay   (o)nline   (q)uit"}
}

func connecting() message {
	return message{"connecting to server...", "", "(c)ancel"}
}

func connectionError() message {
	return message{"something went wrong :(", "", "(p)lay   (o)nline   (q)uit"}
}

type templateData struct {
	Game *tetris.Snapshot
	Name string
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	data     *templateData
	mu       sync.Mutex
}

func newRender(l *slog.Logger, name string) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   os.Stdout,
		logger:   l,
		template: tmp,
		data:     &templateData{Name: name},
	}, nil
}

func (r *render) game(s *tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Game = s
	r.execute()
}

func (r *render) lobby(m message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range lobbyBox(m) {
		fmt.Fprintf(r.writer, "\033[%d;%dH%s", lobbyRow+i, lobbyCol, line)
	}
}

// reset clears the screen and draws an empty board.
func (r *render) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.writer, clearScreen)
	r.data.Game = nil
	r.execute()
}

func (r *render) execute() {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.data); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board": board,
		"stats": stats,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// board renders the playfield and the preview side by side, one string per row.
func board(td *templateData) []string {
	main := tetris.NewGrid[tetris.Color](tetris.MainSize)
	preview := tetris.NewGrid[tetris.Color](tetris.PreviewSize)
	if td.Game != nil {
		main, preview = td.Game.Main, td.Game.Preview
	}

	rows := make([]string, 0, main.Size().H)
	var sb strings.Builder
	for y := range main.Size().H {
		sb.Reset()
		sb.WriteString("|")
		for _, c := range main.Row(y) {
			sb.WriteString(cell(c))
		}
		sb.WriteString("|")
		if y < preview.Size().H {
			for _, c := range preview.Row(y) {
				sb.WriteString(cell(c))
			}
		}
		sb.WriteString("|")
		rows = append(rows, sb.String())
	}
	return rows
}

func cell(c tetris.Color) string {
	code, ok := colorMap[c]
	if !ok {
		return "  "
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", code)
}

func stats(td *templateData) string {
	var s tetris.Snapshot
	if td.Game != nil {
		s = *td.Game
	}
	return fmt.Sprintf(" Score %-8d Lines %-5d", s.Score, s.Lines)
}

func lobbyBox(m message) []string {
	border := "+" + strings.Repeat("-", lobbyWidth) + "+"
	out := []string{border}
	for _, line := range m {
		if len(line) > lobbyWidth {
			line = line[:lobbyWidth]
		}
		left := (lobbyWidth - len(line)) / 2
		right := lobbyWidth - len(line) - left
		out = append(out, "|"+strings.Repeat(" ", left)+line+strings.Repeat(" ", right)+"|")
	}
	return append(out, border)
}
