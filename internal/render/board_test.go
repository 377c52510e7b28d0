package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestRenderBoardPNG(t *testing.T) {
	r := NewBoardRenderer()

	data, err := r.RenderBoardPNG(context.Background(), startFEN)
	if err != nil {
		t.Fatalf("render board: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	want := squareSize*boardSquares + boardMargin*2
	if img.Bounds().Dx() != want || img.Bounds().Dy() != want {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), want, want)
	}
}

func TestParseFENPlacement(t *testing.T) {
	grid, err := parseFENPlacement(startFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if grid[0][0] != 'r' || grid[0][4] != 'k' {
		t.Fatalf("rank 8 = %q", grid[0])
	}
	if grid[7][4] != 'K' || grid[6][0] != 'P' {
		t.Fatal("white back ranks misplaced")
	}
	for file := 0; file < boardSquares; file++ {
		if grid[3][file] != 0 {
			t.Fatalf("rank 5 file %d not empty", file)
		}
	}

	for _, bad := range []string{
		"",
		"8/8/8/8",
		"9/8/8/8/8/8/8/8 w - - 0 1",
		"xxxxxxxx/8/8/8/8/8/8/8 w - - 0 1",
		"ppppppppp/8/8/8/8/8/8/8 w - - 0 1",
	} {
		if _, err := parseFENPlacement(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
