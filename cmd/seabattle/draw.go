package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/yookoala/seabattle/game"
	"github.com/yookoala/seabattle/match"
)

const (
	cellWidth  = 2
	labelWidth = 3
	boardWidth = labelWidth + game.BoardSize*cellWidth
	boardGap   = 6
	boardTop   = 3
)

// tbprint writes msg at (x, y) and returns the column after it.
func tbprint(x, y int, fg, bg termbox.Attribute, msg string) int {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
	return x
}

// fit truncates msg to w display columns.
func fit(msg string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(msg, w, "…")
}

type cellStyle struct {
	ch     rune
	fg, bg termbox.Attribute
}

func styleFor(s game.BoardCellState) cellStyle {
	switch s {
	case game.BoardCellStateWater:
		return cellStyle{'~', termbox.ColorBlue, termbox.ColorDefault}
	case game.BoardCellStateShip:
		return cellStyle{'#', termbox.ColorWhite | termbox.AttrBold, termbox.ColorDefault}
	case game.BoardCellStateHit:
		return cellStyle{'X', termbox.ColorRed | termbox.AttrBold, termbox.ColorDefault}
	case game.BoardCellStateMiss:
		return cellStyle{'o', termbox.ColorCyan, termbox.ColorDefault}
	default:
		return cellStyle{'.', termbox.ColorDefault, termbox.ColorDefault}
	}
}

// boardOrigin is the screen position of cell A1 of the own (0) or the
// opponent's (1) board.
func boardOrigin(which int) (int, int) {
	return 2 + which*(boardWidth+boardGap) + labelWidth, boardTop + 2
}

func drawBoard(which int, title string, b *game.Board, overlay map[[2]int]cellStyle, cursor *[2]int) {
	ox, oy := boardOrigin(which)
	tbprint(ox-labelWidth, boardTop, termbox.ColorDefault|termbox.AttrBold, termbox.ColorDefault, title)
	for x := 0; x < game.BoardSize; x++ {
		termbox.SetCell(ox+x*cellWidth, oy-1, rune('A'+x), termbox.ColorYellow, termbox.ColorDefault)
	}
	for y := 0; y < game.BoardSize; y++ {
		tbprint(ox-labelWidth, oy+y, termbox.ColorYellow, termbox.ColorDefault, fmt.Sprintf("%2d", y+1))
		for x := 0; x < game.BoardSize; x++ {
			st := styleFor(b.State(x, y))
			if o, ok := overlay[[2]int{x, y}]; ok {
				st = o
			}
			if cursor != nil && cursor[0] == x && cursor[1] == y {
				st.fg |= termbox.AttrReverse
			}
			termbox.SetCell(ox+x*cellWidth, oy+y, st.ch, st.fg, st.bg)
		}
	}
}

// previewOverlay paints the ship being placed.
func previewOverlay(v match.View) map[[2]int]cellStyle {
	if len(v.Preview) == 0 {
		return nil
	}
	fg := termbox.ColorGreen | termbox.AttrBold
	if !v.PreviewValid {
		fg = termbox.ColorRed | termbox.AttrBold
	}
	overlay := make(map[[2]int]cellStyle, len(v.Preview))
	for _, c := range v.Preview {
		overlay[c] = cellStyle{'#', fg, termbox.ColorDefault}
	}
	return overlay
}

// sunkOverlay marks the opponent's sunk ships.
func sunkOverlay(v match.View) map[[2]int]cellStyle {
	overlay := make(map[[2]int]cellStyle)
	for _, s := range v.SunkShips {
		for _, c := range s.Cells() {
			overlay[c] = cellStyle{'X', termbox.ColorMagenta | termbox.AttrBold, termbox.ColorDefault}
		}
	}
	return overlay
}

func (a *app) draw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	w, _ := termbox.Size()
	v := a.m.Snapshot()

	opponent := v.OpponentName
	if opponent == "" {
		opponent = "?"
	}
	title := fmt.Sprintf("SEABATTLE  %s vs %s   won %d  lost %d", v.Name, opponent, v.Wins, v.Losses)
	tbprint(2, 1, termbox.ColorWhite|termbox.AttrBold, termbox.ColorDefault, fit(title, w-2))

	var ownCursor, shadowCursor *[2]int
	if a.onShadow(v) {
		shadowCursor = &a.cursor
	} else {
		ownCursor = &a.cursor
	}
	drawBoard(0, "Your fleet", v.Own, previewOverlay(v), ownCursor)
	drawBoard(1, "Enemy waters", v.Shadow, sunkOverlay(v), shadowCursor)

	y := boardTop + 2 + game.BoardSize + 1
	info := fmt.Sprintf("Phase: %s   Ships left: %d   Enemy ships left: %d", phaseLabel(v), v.ShipsRemaining, v.OpponentShipsRemaining)
	if v.Phase == game.PhasePlacement && !v.FleetComplete {
		info += fmt.Sprintf("   Next: %s (%d) %s", v.NextShip, v.NextShip.Size(), v.Direction)
	}
	tbprint(2, y, termbox.ColorDefault, termbox.ColorDefault, fit(info, w-2))
	y++
	tbprint(2, y, termbox.ColorGreen|termbox.AttrBold, termbox.ColorDefault, fit(v.Status, w-2))
	y += 2

	for _, line := range a.ui.recent() {
		tbprint(2, y, termbox.ColorDefault, termbox.ColorDefault, fit(line, w-2))
		y++
	}
	y++

	if banner := a.ui.banner(); banner != "" {
		tbprint(2, y, termbox.ColorYellow|termbox.AttrBold|termbox.AttrReverse, termbox.ColorDefault, fit(" "+banner+" ", w-2))
		y += 2
	}

	if a.chatting {
		end := tbprint(2, y, termbox.ColorCyan, termbox.ColorDefault, "say: ")
		end = tbprint(end, y, termbox.ColorDefault, termbox.ColorDefault, string(a.chat))
		termbox.SetCursor(end, y)
	} else {
		termbox.HideCursor()
		tbprint(2, y, termbox.ColorDefault, termbox.ColorDefault, fit(helpLine(v), w-2))
	}
	termbox.Flush()
}

func phaseLabel(v match.View) string {
	switch {
	case v.Hosting:
		return "hosting"
	case !v.Connected && v.Phase != game.PhaseEnded:
		return "not connected"
	}
	switch v.Phase {
	case game.PhasePlacement:
		return "placing ships"
	case game.PhaseWaitingForOpponent:
		return "waiting"
	case game.PhaseMyTurn:
		return "your turn"
	case game.PhaseOpponentTurn:
		return "their turn"
	default:
		return "game over"
	}
}

func helpLine(v match.View) string {
	switch v.Phase {
	case game.PhasePlacement:
		return "arrows move  space place  r rotate  c clear  y ready  t chat  q quit"
	case game.PhaseMyTurn, game.PhaseOpponentTurn, game.PhaseWaitingForOpponent:
		return "arrows move  space fire  t chat  p ping  q quit"
	default:
		return "n new game  t chat  q quit"
	}
}
