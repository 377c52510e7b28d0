package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	squareSize   = 56
	boardSquares = 8
	boardMargin  = 24
)

var (
	colSquareLight = color.RGBA{R: 0xea, G: 0xd9, B: 0xb5, A: 0xff}
	colSquareDark  = color.RGBA{R: 0xac, G: 0x7d, B: 0x54, A: 0xff}
	colWhitePiece  = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	colBlackPiece  = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
)

// BoardRenderer draws a chess position given as a FEN string.
type BoardRenderer interface {
	RenderBoardPNG(ctx context.Context, fen string) ([]byte, error)
}

func NewBoardRenderer() BoardRenderer {
	return &svgDuelRenderer{}
}

func (r *svgDuelRenderer) RenderBoardPNG(ctx context.Context, fen string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	ranks, err := parseFENPlacement(fen)
	if err != nil {
		return nil, err
	}

	boardSize := squareSize * boardSquares
	totalW := boardSize + boardMargin*2
	totalH := boardSize + boardMargin*2

	img := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	fillRect(img, img.Bounds(), colBackground)

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	for rank := 0; rank < boardSquares; rank++ {
		for file := 0; file < boardSquares; file++ {
			x := boardMargin + file*squareSize
			y := boardMargin + rank*squareSize
			cell := image.Rect(x, y, x+squareSize, y+squareSize)

			clr := colSquareLight
			if (rank+file)%2 == 1 {
				clr = colSquareDark
			}
			fillRect(img, cell, clr)

			piece := ranks[rank][file]
			if piece == 0 {
				continue
			}
			pieceClr := colWhitePiece
			if piece >= 'a' && piece <= 'z' {
				pieceClr = colBlackPiece
			}
			w := drawer.MeasureString(string(piece)).Round()
			drawString(drawer, string(piece), cell.Min.X+(squareSize-w)/2, cell.Min.Y+(squareSize+13)/2-2, pieceClr)
		}
	}

	for i := 0; i < boardSquares; i++ {
		fileLabel := string(rune('a' + i))
		x := boardMargin + i*squareSize + squareSize/2 - 3
		drawString(drawer, fileLabel, x, boardMargin+boardSize+16, colTextDim)

		rankLabel := string(rune('8' - i))
		y := boardMargin + i*squareSize + squareSize/2 + 4
		drawString(drawer, rankLabel, boardMargin-14, y, colTextDim)
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode board png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

// parseFENPlacement expands the placement field into an 8x8 byte grid,
// rank 8 first. Zero bytes mark empty squares.
func parseFENPlacement(fen string) ([boardSquares][boardSquares]byte, error) {
	var grid [boardSquares][boardSquares]byte

	placement := strings.TrimSpace(fen)
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	rows := strings.Split(placement, "/")
	if len(rows) != boardSquares {
		return grid, fmt.Errorf("fen has %d ranks, want %d", len(rows), boardSquares)
	}

	for r, row := range rows {
		file := 0
		for _, ch := range []byte(row) {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			case strings.IndexByte("pnbrqkPNBRQK", ch) >= 0:
				if file >= boardSquares {
					return grid, fmt.Errorf("fen rank %d overflows", r+1)
				}
				grid[r][file] = ch
				file++
			default:
				return grid, fmt.Errorf("fen rank %d has invalid symbol %q", r+1, ch)
			}
		}
		if file != boardSquares {
			return grid, fmt.Errorf("fen rank %d covers %d files", r+1, file)
		}
	}
	return grid, nil
}
