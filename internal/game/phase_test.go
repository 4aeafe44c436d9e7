package game

import "testing"

func TestPhaseCapabilities(t *testing.T) {
	tests := []struct {
		phase Phase
		want  Capabilities
	}{
		{PhaseWaitingForPlayers, Capabilities{Join: true, Leave: true, Start: true}},
		{PhasePlayingCards, Capabilities{Join: true, Leave: true, PlayCard: true}},
		{PhaseJudging, Capabilities{Join: true, Leave: true, SelectWinner: true}},
		{PhaseRoundEnd, Capabilities{Join: true, Leave: true, NewRound: true}},
		{PhaseGameOver, Capabilities{Leave: true}},
	}
	for _, tt := range tests {
		if got := tt.phase.Capabilities(); got != tt.want {
			t.Fatalf("%s: expected %+v, got %+v", tt.phase, tt.want, got)
		}
	}
}

func TestPhaseTransitions(t *testing.T) {
	if !PhaseJudging.CanTransitionTo(PhasePlayingCards) {
		t.Fatalf("judging should fall back to playing cards")
	}
	if PhaseWaitingForPlayers.CanTransitionTo(PhaseJudging) {
		t.Fatalf("waiting cannot skip to judging")
	}
	for _, next := range []Phase{PhaseWaitingForPlayers, PhasePlayingCards, PhaseJudging, PhaseRoundEnd} {
		if PhaseGameOver.CanTransitionTo(next) {
			t.Fatalf("game over is terminal, allowed %s", next)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for phase := PhaseWaitingForPlayers; phase <= PhaseGameOver; phase++ {
		parsed, err := ParsePhase(phase.String())
		if err != nil {
			t.Fatalf("parse %s: %v", phase, err)
		}
		if parsed != phase {
			t.Fatalf("expected %s, got %s", phase, parsed)
		}
	}
	if _, err := ParsePhase("lobby"); err == nil {
		t.Fatalf("expected unknown phase to fail")
	}
}

func TestPhaseStatus(t *testing.T) {
	if PhaseWaitingForPlayers.Status() != StatusWaiting {
		t.Fatalf("expected waiting status")
	}
	if PhaseRoundEnd.Status() != StatusInProgress {
		t.Fatalf("expected in progress status")
	}
	if PhaseGameOver.Status() != StatusCompleted {
		t.Fatalf("expected completed status")
	}
}
