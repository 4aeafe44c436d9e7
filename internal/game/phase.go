package game

import "strings"

type Phase int

const (
	PhaseWaitingForPlayers Phase = iota
	PhasePlayingCards
	PhaseJudging
	PhaseRoundEnd
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseWaitingForPlayers: "waiting_for_players",
	PhasePlayingCards:      "playing_cards",
	PhaseJudging:           "judging",
	PhaseRoundEnd:          "round_end",
	PhaseGameOver:          "game_over",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func ParsePhase(raw string) (Phase, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for phase, name := range phaseNames {
		if name == normalized {
			return phase, nil
		}
	}
	return 0, failf(ErrInvalidArgument, "unknown phase %q", raw)
}

// Capabilities lists which operations a phase allows.
type Capabilities struct {
	Join         bool
	Leave        bool
	Start        bool
	PlayCard     bool
	SelectWinner bool
	NewRound     bool
}

var phaseCapabilities = map[Phase]Capabilities{
	PhaseWaitingForPlayers: {Join: true, Leave: true, Start: true},
	PhasePlayingCards:      {Join: true, Leave: true, PlayCard: true},
	PhaseJudging:           {Join: true, Leave: true, SelectWinner: true},
	PhaseRoundEnd:          {Join: true, Leave: true, NewRound: true},
	PhaseGameOver:          {Leave: true},
}

func (p Phase) Capabilities() Capabilities {
	return phaseCapabilities[p]
}

func (p Phase) CanJoin() bool { return p.Capabilities().Join }
func (p Phase) CanLeave() bool { return p.Capabilities().Leave }
func (p Phase) CanStartGame() bool { return p.Capabilities().Start }
func (p Phase) CanPlayCard() bool { return p.Capabilities().PlayCard }
func (p Phase) CanSelectWinner() bool { return p.Capabilities().SelectWinner }
func (p Phase) CanStartNewRound() bool { return p.Capabilities().NewRound }
func (p Phase) IsInProgress() bool { return p == PhasePlayingCards || p == PhaseJudging || p == PhaseRoundEnd }
func (p Phase) IsTerminal() bool { return p == PhaseGameOver }

// Judging can fall back to PlayingCards when a departure leaves the round
// short of submissions. Any in-progress phase can end the game when the
// roster drops below the minimum.
var phaseTransitions = map[Phase][]Phase{
	PhaseWaitingForPlayers: {PhasePlayingCards},
	PhasePlayingCards:      {PhaseJudging, PhaseGameOver},
	PhaseJudging:           {PhaseRoundEnd, PhasePlayingCards, PhaseGameOver},
	PhaseRoundEnd:          {PhasePlayingCards, PhaseGameOver},
}

func (p Phase) CanTransitionTo(next Phase) bool {
	for _, candidate := range phaseTransitions[p] {
		if candidate == next {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (p Phase) Status() Status {
	switch {
	case p == PhaseWaitingForPlayers:
		return StatusWaiting
	case p.IsTerminal():
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
