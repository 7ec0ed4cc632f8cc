package client

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"blockdrop/tetris"

	approvals "github.com/approvals/go-approval-tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRender(t *testing.T) (*render, *bytes.Buffer) {
	t.Helper()
	r, err := newRender(slog.New(slog.DiscardHandler), "ana")
	require.NoError(t, err)
	var buf bytes.Buffer
	r.writer = &buf
	return r, &buf
}

func TestBoardEmpty(t *testing.T) {
	rows := board(&templateData{})
	require.Len(t, rows, int(tetris.MainSize.H))
	want := "|" + strings.Repeat(" ", 20) + "|" + strings.Repeat(" ", 8) + "|"
	for i, row := range rows {
		assert.Equal(t, want, row, "row %d", i)
	}
}

func TestBoardCells(t *testing.T) {
	main := tetris.NewGrid[tetris.Color](tetris.MainSize)
	main.SetTile(tetris.Pos{X: 0, Y: 21}, tetris.Blue)
	preview := tetris.NewGrid[tetris.Color](tetris.PreviewSize)
	preview.Fill(tetris.Preview)
	preview.SetTile(tetris.Pos{X: 3, Y: 21}, tetris.Red)

	rows := board(&templateData{Game: &tetris.Snapshot{Main: main, Preview: preview}})
	blue := "\x1b[7m\x1b[34m[]\x1b[0m"
	red := "\x1b[7m\x1b[31m[]\x1b[0m"
	want := "|" + blue + strings.Repeat(" ", 18) + "|" + strings.Repeat(" ", 6) + red + "|"
	assert.Equal(t, want, rows[21])
}

func TestRenderGame(t *testing.T) {
	main := tetris.NewGrid[tetris.Color](tetris.MainSize)
	for _, p := range []tetris.Pos{{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 4, Y: 1}, {X: 5, Y: 1}} {
		main.SetTile(p, tetris.Blue)
	}
	for x := range uint(9) {
		main.SetTile(tetris.Pos{X: x, Y: 21}, tetris.Red)
	}
	preview := tetris.NewGrid[tetris.Color](tetris.PreviewSize)
	preview.Fill(tetris.Preview)
	for x := range uint(4) {
		preview.SetTile(tetris.Pos{X: x, Y: 0}, tetris.Cyan)
	}

	r, buf := testRender(t)
	r.game(&tetris.Snapshot{Main: main, Preview: preview, Score: 100, Lines: 2})
	approvals.VerifyString(t, buf.String())
}

func TestRenderReset(t *testing.T) {
	r, buf := testRender(t)
	r.reset()
	approvals.VerifyString(t, buf.String())
}

func TestRenderDefaultLobby(t *testing.T) {
	verifyLobby(t, defaultLobby())
}

func TestRenderGameOverLobby(t *testing.T) {
	verifyLobby(t, gameOver(300))
}

func TestRenderConnectingLobby(t *testing.T) {
	verifyLobby(t, connecting())
}

func TestRenderConnectionErrorLobby(t *testing.T) {
	verifyLobby(t, connectionError())
}

func verifyLobby(t *testing.T, m message) {
	t.Helper()
	r, buf := testRender(t)
	r.lobby(m)
	approvals.VerifyString(t, buf.String())
}

func TestLobbyBox(t *testing.T) {
	box := lobbyBox(message{"ab", strings.Repeat("x", 50)})
	require.Len(t, box, 4)
	assert.Equal(t, "|"+strings.Repeat(" ", 18)+"ab"+strings.Repeat(" ", 18)+"|", box[1])
	assert.Equal(t, "|"+strings.Repeat("x", lobbyWidth)+"|", box[2])
}
