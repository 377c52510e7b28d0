// Package render rasterizes arena and hand snapshots into PNG images for
// the chat transport. Assets are small embedded SVG glyphs.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/JerffersonJunior/Manut-ShiroJBot-sub001/pkg/dueldto"
)

const (
	cardW    = 96
	cardH    = 128
	cellGap  = 12
	sideM    = 16
	hudH     = 40
	titleH   = 26
	glyphSz  = 14
	statPadY = 6
)

var (
	colBackground = color.RGBA{R: 0x23, G: 0x27, B: 0x2e, A: 0xff}
	colHUD        = color.RGBA{R: 0x2f, G: 0x35, B: 0x40, A: 0xff}
	colHUDActive  = color.RGBA{R: 0x3a, G: 0x4a, B: 0x2f, A: 0xff}
	colEmptySlot  = color.RGBA{R: 0x2b, G: 0x30, B: 0x39, A: 0xff}
	colCard       = color.RGBA{R: 0x46, G: 0x4f, B: 0x5e, A: 0xff}
	colCardDim    = color.RGBA{R: 0x38, G: 0x3e, B: 0x4a, A: 0xff}
	colBorder     = color.RGBA{R: 0x6c, G: 0x75, B: 0x85, A: 0xff}
	colDefendEdge = color.RGBA{R: 0x5b, G: 0xc0, B: 0xde, A: 0xff}
	colText       = color.RGBA{R: 0xe8, G: 0xea, B: 0xef, A: 0xff}
	colTextDim    = color.RGBA{R: 0x9a, G: 0xa2, B: 0xb1, A: 0xff}
	colHP         = color.RGBA{R: 0xd9, G: 0x53, B: 0x4f, A: 0xff}
	colMP         = color.RGBA{R: 0x5b, G: 0xc0, B: 0xde, A: 0xff}
)

// DuelRenderer turns the DTO snapshots into PNG payloads.
type DuelRenderer interface {
	RenderArenaPNG(ctx context.Context, view dueldto.ArenaView) ([]byte, error)
	RenderHandPNG(ctx context.Context, view dueldto.HandView) ([]byte, error)
}

type svgDuelRenderer struct{}

func NewSVGDuelRenderer() DuelRenderer {
	return &svgDuelRenderer{}
}

func (r *svgDuelRenderer) RenderArenaPNG(ctx context.Context, view dueldto.ArenaView) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	lanes := len(view.Top)
	if n := len(view.Bottom); n > lanes {
		lanes = n
	}
	if lanes == 0 {
		return nil, fmt.Errorf("arena view has no lanes")
	}

	gridW := lanes*cardW + (lanes-1)*cellGap
	gridH := 4*cardH + 3*cellGap
	totalW := gridW + sideM*2
	totalH := titleH + hudH + cellGap + gridH + cellGap + hudH + sideM

	img := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	fillRect(img, img.Bounds(), colBackground)

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	title := fmt.Sprintf("Turno %d - %s", view.Turn, view.Phase)
	drawString(drawer, title, sideM, titleH-8, colText)

	drawResourceHUD(img, drawer, view.Players[0], image.Rect(sideM, titleH, sideM+gridW, titleH+hudH))

	gridTop := titleH + hudH + cellGap
	// visual order: top support, top frontline, bottom frontline, bottom support
	rows := []struct {
		lanes  []dueldto.LaneView
		bottom bool
	}{
		{view.Top, true},
		{view.Top, false},
		{view.Bottom, false},
		{view.Bottom, true},
	}
	for ri, row := range rows {
		y := gridTop + ri*(cardH+cellGap)
		for li := 0; li < lanes; li++ {
			x := sideM + li*(cardW+cellGap)
			cell := image.Rect(x, y, x+cardW, y+cardH)
			var cv *dueldto.CardView
			if li < len(row.lanes) {
				if row.bottom {
					cv = row.lanes[li].Bottom
				} else {
					cv = row.lanes[li].Top
				}
			}
			if err := drawBoardCard(img, drawer, cell, cv); err != nil {
				return nil, err
			}
		}
	}

	bottomHUDY := gridTop + gridH + cellGap
	drawResourceHUD(img, drawer, view.Players[1], image.Rect(sideM, bottomHUDY, sideM+gridW, bottomHUDY+hudH))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode arena png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func (r *svgDuelRenderer) RenderHandPNG(ctx context.Context, view dueldto.HandView) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	cols := len(view.Cards)
	if cols < 1 {
		cols = 1
	}
	gridW := cols*cardW + (cols-1)*cellGap
	totalW := gridW + sideM*2
	totalH := titleH + hudH + cellGap + cardH + sideM

	img := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	fillRect(img, img.Bounds(), colBackground)

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}

	drawString(drawer, "Mao de "+view.Owner, sideM, titleH-8, colText)

	hud := fmt.Sprintf("HP %d  MP %d  Compras %d", view.HP, view.MP, view.Remaining)
	hudRect := image.Rect(sideM, titleH, sideM+gridW, titleH+hudH)
	fillRect(img, hudRect, colHUD)
	drawString(drawer, hud, hudRect.Min.X+8, hudRect.Min.Y+(hudH+13)/2-2, colText)

	y := titleH + hudH + cellGap
	for i, c := range view.Cards {
		x := sideM + i*(cardW+cellGap)
		cell := image.Rect(x, y, x+cardW, y+cardH)
		if err := drawHandCard(img, drawer, cell, i+1, c); err != nil {
			return nil, err
		}
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode hand png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func drawResourceHUD(img *image.RGBA, drawer *font.Drawer, p dueldto.PlayerView, rect image.Rectangle) {
	bg := colHUD
	if p.Current {
		bg = colHUDActive
	}
	fillRect(img, rect, bg)

	baseline := rect.Min.Y + (rect.Dy()+13)/2 - 2
	drawString(drawer, p.Name, rect.Min.X+8, baseline, colText)

	stats := fmt.Sprintf("HP %d  MP %d  Mao %d  Deck %d  Cemiterio %d",
		p.HP, p.MP, p.HandCount, p.DeckCount, p.GraveSize)
	w := drawer.MeasureString(stats).Round()
	drawString(drawer, stats, rect.Max.X-8-w, baseline, colTextDim)
}

func drawBoardCard(img *image.RGBA, drawer *font.Drawer, cell image.Rectangle, cv *dueldto.CardView) error {
	if cv == nil {
		fillRect(img, cell, colEmptySlot)
		strokeRect(img, cell, colBorder)
		return nil
	}

	if cv.Flipped {
		back, err := glyphImage("back", cardW, cardH)
		if err != nil {
			return err
		}
		imagedraw.Draw(img, cell, back, image.Point{}, imagedraw.Over)
		return nil
	}

	fill := colCard
	if cv.Supporting {
		fill = colCardDim
	}
	fillRect(img, cell, fill)
	edge := colBorder
	if cv.Defending {
		edge = colDefendEdge
	}
	strokeRect(img, cell, edge)

	name := truncate(drawer.Face, cv.Name, cell.Dx()-10)
	drawString(drawer, name, cell.Min.X+5, cell.Min.Y+16, colText)

	if err := drawStat(img, drawer, "sword", strconv.Itoa(cv.Attack),
		cell.Min.X+5, cell.Max.Y-glyphSz-statPadY-glyphSz-4, colText); err != nil {
		return err
	}
	if err := drawStat(img, drawer, "shield", strconv.Itoa(cv.Defense),
		cell.Min.X+5, cell.Max.Y-glyphSz-statPadY, colText); err != nil {
		return err
	}

	if n := len(cv.Equips); n > 0 {
		tag := "+" + strconv.Itoa(n)
		w := drawer.MeasureString(tag).Round()
		drawString(drawer, tag, cell.Max.X-5-w, cell.Max.Y-statPadY, colMP)
	}
	return nil
}

func drawHandCard(img *image.RGBA, drawer *font.Drawer, cell image.Rectangle, index int, c dueldto.HandCardView) error {
	fill := colCard
	if !c.Available {
		fill = colCardDim
	}
	fillRect(img, cell, fill)
	strokeRect(img, cell, colBorder)

	drawString(drawer, strconv.Itoa(index), cell.Min.X+5, cell.Min.Y+16, colTextDim)

	name := truncate(drawer.Face, c.Name, cell.Dx()-10)
	drawString(drawer, name, cell.Min.X+5, cell.Min.Y+32, colText)

	cost := "MP " + strconv.Itoa(c.MPCost)
	if c.HPCost > 0 {
		cost += " HP " + strconv.Itoa(c.HPCost)
	}
	costClr := colMP
	if c.HPCost > 0 {
		costClr = colHP
	}
	drawString(drawer, cost, cell.Min.X+5, cell.Min.Y+52, costClr)

	if c.Kind == "senshi" {
		if err := drawStat(img, drawer, "sword", strconv.Itoa(c.Attack),
			cell.Min.X+5, cell.Max.Y-glyphSz-statPadY-glyphSz-4, colText); err != nil {
			return err
		}
		if err := drawStat(img, drawer, "shield", strconv.Itoa(c.Defense),
			cell.Min.X+5, cell.Max.Y-glyphSz-statPadY, colText); err != nil {
			return err
		}
	} else {
		drawString(drawer, "evogear", cell.Min.X+5, cell.Max.Y-statPadY-4, colTextDim)
	}
	return nil
}

func drawStat(img *image.RGBA, drawer *font.Drawer, glyph, value string, x, y int, clr color.Color) error {
	g, err := glyphImage(glyph, glyphSz, glyphSz)
	if err != nil {
		return err
	}
	rect := image.Rect(x, y, x+glyphSz, y+glyphSz)
	imagedraw.Draw(img, rect, g, image.Point{}, imagedraw.Over)
	drawString(drawer, value, x+glyphSz+4, y+glyphSz-2, clr)
	return nil
}

func drawString(drawer *font.Drawer, text string, x, baseline int, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func truncate(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	const ellipsis = "..."
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimSpace(string(runes)) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func fillRect(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
}

func strokeRect(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	fillRect(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+2), clr)
	fillRect(img, image.Rect(rect.Min.X, rect.Max.Y-2, rect.Max.X, rect.Max.Y), clr)
	fillRect(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+2, rect.Max.Y), clr)
	fillRect(img, image.Rect(rect.Max.X-2, rect.Min.Y, rect.Max.X, rect.Max.Y), clr)
}
