package game

// Phase gates which side may act.
type Phase int

const (
	PhasePlacement Phase = iota
	PhaseWaitingForOpponent
	PhaseMyTurn
	PhaseOpponentTurn
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhasePlacement:
		return "Placement"
	case PhaseWaitingForOpponent:
		return "WaitingForOpponent"
	case PhaseMyTurn:
		return "MyTurn"
	case PhaseOpponentTurn:
		return "OpponentTurn"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Playing reports whether shots are being exchanged.
func (p Phase) Playing() bool {
	return p == PhaseMyTurn || p == PhaseOpponentTurn
}

type EventKind int

const (
	EventReadySent EventKind = iota
	EventOpponentReady
	EventLocalShot
	EventRemoteShot
	EventFleetDestroyed
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventReadySent:
		return "ReadySent"
	case EventOpponentReady:
		return "OpponentReady"
	case EventLocalShot:
		return "LocalShot"
	case EventRemoteShot:
		return "RemoteShot"
	case EventFleetDestroyed:
		return "FleetDestroyed"
	case EventDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Event is an input to the turn state machine.
type Event struct {
	Kind EventKind

	// Outcome of the shot for EventLocalShot and EventRemoteShot.
	Outcome Outcome

	// Host is the local role, consulted by EventOpponentReady.
	Host bool
}

func ReadySent() Event { return Event{Kind: EventReadySent} }

// OpponentReady is received while the local side already signalled ready.
func OpponentReady(host bool) Event { return Event{Kind: EventOpponentReady, Host: host} }

func LocalShot(o Outcome) Event  { return Event{Kind: EventLocalShot, Outcome: o} }
func RemoteShot(o Outcome) Event { return Event{Kind: EventRemoteShot, Outcome: o} }
func FleetDestroyed() Event      { return Event{Kind: EventFleetDestroyed} }
func Disconnected() Event        { return Event{Kind: EventDisconnected} }

// NextPhase computes the phase following p on event e. Events that do not
// apply to p leave it unchanged; an Invalid shot outcome never transitions
// and Ended is terminal.
func NextPhase(p Phase, e Event) Phase {
	if p == PhaseEnded {
		return PhaseEnded
	}

	switch e.Kind {
	case EventFleetDestroyed, EventDisconnected:
		return PhaseEnded

	case EventReadySent:
		if p == PhasePlacement {
			return PhaseWaitingForOpponent
		}

	case EventOpponentReady:
		if p == PhaseWaitingForOpponent {
			// Host always moves first.
			if e.Host {
				return PhaseMyTurn
			}
			return PhaseOpponentTurn
		}

	case EventLocalShot:
		if p == PhaseMyTurn && e.Outcome == OutcomeMiss {
			return PhaseOpponentTurn
		}

	case EventRemoteShot:
		if p == PhaseOpponentTurn && e.Outcome == OutcomeMiss {
			return PhaseMyTurn
		}
	}
	return p
}
