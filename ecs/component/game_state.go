package component

// GameMode is the coarse phase of a session.
type GameMode int

const (
	GameModeMenu GameMode = iota
	GameModeGameplay
	GameModeEnd
)

func (m GameMode) String() string {
	switch m {
	case GameModeMenu:
		return "menu"
	case GameModeGameplay:
		return "gameplay"
	case GameModeEnd:
		return "end"
	default:
		return "unknown"
	}
}

// GameState is the read-only view of the session mode handed to systems.
type GameState interface {
	Mode() GameMode
}

// ModeState is a settable GameState owned by the host.
type ModeState struct {
	mode GameMode
}

func NewModeState(mode GameMode) *ModeState {
	return &ModeState{mode: mode}
}

func (s *ModeState) Mode() GameMode {
	if s == nil {
		return GameModeGameplay
	}
	return s.mode
}

func (s *ModeState) Set(mode GameMode) {
	if s == nil {
		return
	}
	s.mode = mode
}
