package match

// UI receives notifications from a Match.
//
// All callbacks run on the match goroutine. They must return promptly and
// must not call back into the Match synchronously; read state with
// Snapshot, or hand the work to another goroutine.
type UI interface {
	// OnBoardChanged is called after any change visible on either board.
	OnBoardChanged()

	// OnStatusMessage is called with a one-line human readable status.
	OnStatusMessage(text string)

	// OnGameEnded is called when a game is decided. It is not called when
	// the connection drops.
	OnGameEnded(won bool)
}

// UIFuncs adapts plain functions to UI. Nil fields are no-ops.
type UIFuncs struct {
	BoardChanged  func()
	StatusMessage func(text string)
	GameEnded     func(won bool)
}

func (f UIFuncs) OnBoardChanged() {
	if f.BoardChanged != nil {
		f.BoardChanged()
	}
}

func (f UIFuncs) OnStatusMessage(text string) {
	if f.StatusMessage != nil {
		f.StatusMessage(text)
	}
}

func (f UIFuncs) OnGameEnded(won bool) {
	if f.GameEnded != nil {
		f.GameEnded(won)
	}
}
