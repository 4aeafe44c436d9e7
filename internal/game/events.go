package game

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventGameCreated      EventType = "game_created"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerLeft       EventType = "player_left"
	EventPlayerRenamed    EventType = "player_renamed"
	EventPlayerConnection EventType = "player_connection"
	EventHostChanged      EventType = "host_changed"
	EventDecksInitialized EventType = "decks_initialized"
	EventPhaseChanged     EventType = "phase_changed"
	EventRoundStarted     EventType = "round_started"
	EventCardPlayed       EventType = "card_played"
	EventCardRetracted    EventType = "card_retracted"
	EventJudgeChanged     EventType = "judge_changed"
	EventWinnerSelected   EventType = "winner_selected"
	EventGameOver         EventType = "game_over"
)

// Event records something observable that happened to a game. Events carry
// no state the aggregate depends on.
type Event struct {
	Type        EventType `json:"type"`
	At          time.Time `json:"at"`
	PlayerID    uuid.UUID `json:"player_id,omitzero"`
	RoundNumber int       `json:"round_number,omitempty"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Nickname    string    `json:"nickname,omitempty"`
	Count       int       `json:"count,omitempty"`
}

func (g *Game) record(event Event) {
	if event.At.IsZero() {
		event.At = g.now()
	}
	if event.RoundNumber == 0 && g.current != nil {
		event.RoundNumber = g.current.number
	}
	g.events = append(g.events, event)
}

// DrainEvents returns the events recorded since the last call.
func (g *Game) DrainEvents() []Event {
	events := g.events
	g.events = nil
	return events
}
