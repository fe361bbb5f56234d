package main

import (
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/yookoala/seabattle/game"
	"github.com/yookoala/seabattle/match"
)

const recentLines = 5

// termUI receives match callbacks. They run on the match goroutine, so
// they only record what happened and ask for a redraw.
type termUI struct {
	redraw chan struct{}

	mu     sync.Mutex
	lines  []string
	result string
}

func newTermUI() *termUI {
	return &termUI{redraw: make(chan struct{}, 1)}
}

func (u *termUI) poke() {
	select {
	case u.redraw <- struct{}{}:
	default:
	}
}

// forward wakes PollEvent for every redraw request. termbox.Interrupt
// blocks until PollEvent is waiting, so it never runs on the match
// goroutine.
func (u *termUI) forward() {
	for range u.redraw {
		termbox.Interrupt()
	}
}

func (u *termUI) OnBoardChanged() {
	u.poke()
}

func (u *termUI) OnStatusMessage(text string) {
	u.mu.Lock()
	u.lines = append(u.lines, text)
	if len(u.lines) > recentLines {
		u.lines = u.lines[len(u.lines)-recentLines:]
	}
	u.mu.Unlock()
	u.poke()
}

func (u *termUI) OnGameEnded(won bool) {
	u.mu.Lock()
	if won {
		u.result = "VICTORY! All enemy ships sunk. Press n for a new game."
	} else {
		u.result = "DEFEAT. Your fleet is destroyed. Press n for a new game."
	}
	u.mu.Unlock()
	u.poke()
}

func (u *termUI) recent() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.lines...)
}

func (u *termUI) banner() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result
}

func (u *termUI) clearBanner() {
	u.mu.Lock()
	u.result = ""
	u.mu.Unlock()
}

// app is the terminal front end. It is only used from the main goroutine.
type app struct {
	m  *match.Match
	ui *termUI

	cursor   [2]int
	chatting bool
	chat     []rune
}

// onShadow reports whether the cursor is on the opponent's board.
func (a *app) onShadow(v match.View) bool {
	return v.Phase != game.PhasePlacement
}

func (a *app) loop() error {
	for {
		a.draw()
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			if a.chatting {
				a.chatKey(ev)
				continue
			}
			if a.key(ev) {
				return nil
			}
		case termbox.EventError:
			return ev.Err
		}
	}
}

// key handles a key press and reports whether to quit. Errors from the
// match are already shown as status messages.
func (a *app) key(ev termbox.Event) (quit bool) {
	v := a.m.Snapshot()
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return true
	case termbox.KeyArrowUp:
		a.move(v, 0, -1)
	case termbox.KeyArrowDown:
		a.move(v, 0, 1)
	case termbox.KeyArrowLeft:
		a.move(v, -1, 0)
	case termbox.KeyArrowRight:
		a.move(v, 1, 0)
	case termbox.KeySpace, termbox.KeyEnter:
		if v.Phase == game.PhasePlacement {
			_ = a.m.PlaceShip(a.cursor[0], a.cursor[1])
		} else {
			_ = a.m.FireShot(a.cursor[0], a.cursor[1])
		}
	}

	switch ev.Ch {
	case 'q':
		return true
	case 'r':
		_ = a.m.RotateCurrentShip()
	case 'c':
		_ = a.m.ResetPlacement()
	case 'y':
		_ = a.m.ConfirmReady()
	case 'p':
		_ = a.m.Ping()
	case 'n':
		if v.Phase == game.PhaseEnded {
			a.ui.clearBanner()
			_ = a.m.Reset()
			a.cursor = [2]int{}
		}
	case 't':
		a.chatting = true
		a.chat = a.chat[:0]
	}
	return false
}

func (a *app) move(v match.View, dx, dy int) {
	a.cursor = clampCursor(a.cursor[0]+dx, a.cursor[1]+dy)
	if v.Phase == game.PhasePlacement {
		_ = a.m.Preview(a.cursor[0], a.cursor[1])
	}
}

func clampCursor(x, y int) [2]int {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		if n >= game.BoardSize {
			return game.BoardSize - 1
		}
		return n
	}
	return [2]int{clamp(x), clamp(y)}
}

func (a *app) chatKey(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		a.chatting = false
	case termbox.KeyEnter:
		a.chatting = false
		if len(a.chat) > 0 {
			_ = a.m.SendChat(string(a.chat))
		}
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if len(a.chat) > 0 {
			a.chat = a.chat[:len(a.chat)-1]
		}
	case termbox.KeySpace:
		a.chat = append(a.chat, ' ')
	default:
		if ev.Ch != 0 {
			a.chat = append(a.chat, ev.Ch)
		}
	}
}
