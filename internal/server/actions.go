package server

import (
	"errors"
	"fmt"
	"log"

	"pears2pears/internal/game"

	"github.com/google/uuid"
)

var errPersist = errors.New("failed to save game")

// mutation is what an applied operation leaves behind for broadcasting.
type mutation struct {
	gameID uuid.UUID
	code   game.Code
	phase  game.Phase
	round  int
	view   gameView
	events []game.Event
}

// mutateGame applies op to a running game and persists the result. When the
// operation fails after changing state, or the write fails, the game is
// rolled back to its state before op ran.
func (s *Server) mutateGame(id uuid.UUID, op func(g *game.Game) error) (mutation, error) {
	var result mutation
	err := s.store.UpdateGame(id, func(g *game.Game) (*game.Game, error) {
		before := g.Snapshot()
		if err := op(g); err != nil {
			if len(g.DrainEvents()) > 0 {
				if restored, restoreErr := game.Restore(before, s.gameOpts...); restoreErr == nil {
					return restored, err
				}
			}
			return g, err
		}
		events := g.DrainEvents()
		if err := s.persistGame(g, events); err != nil {
			log.Printf("game persist failed game_id=%s error=%v", g.ID(), err)
			restored, restoreErr := game.Restore(before, s.gameOpts...)
			if restoreErr != nil {
				log.Printf("game rollback failed game_id=%s error=%v", g.ID(), restoreErr)
				return g, fmt.Errorf("%w: %v", errPersist, err)
			}
			return restored, fmt.Errorf("%w: %v", errPersist, err)
		}
		result = mutation{
			gameID: g.ID(),
			code:   g.Code(),
			phase:  g.Phase(),
			round:  currentRoundNumber(g),
			view:   buildGameView(g, s.inactiveTimeout()),
			events: events,
		}
		return g, nil
	})
	if err != nil {
		return mutation{}, err
	}
	s.afterMutation(result)
	return result, nil
}

func (s *Server) afterMutation(m mutation) {
	logEvents(m.gameID, m.code, m.events)
	s.broadcastGameUpdate(m)
	s.scheduleRoundTimer(m.gameID, m.phase, m.round)
}

// lookupGame resolves a join code, loading the game from the database when
// it is not running in memory.
func (s *Server) lookupGame(raw string) (uuid.UUID, error) {
	code, err := game.ParseCode(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: game %s", game.ErrNotFound, raw)
	}
	if id, ok := s.store.FindGameIDByCode(code); ok {
		return id, nil
	}
	g, err := s.loadGameByCode(code)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.store.AddGame(g); err != nil {
		if id, ok := s.store.FindGameIDByCode(code); ok {
			return id, nil
		}
		return uuid.Nil, err
	}
	log.Printf("game restored game_id=%s code=%s phase=%s", g.ID(), g.Code(), g.Phase())
	s.scheduleRoundTimer(g.ID(), g.Phase(), currentRoundNumber(g))
	return g.ID(), nil
}

// viewGame builds the public view of a running game.
func (s *Server) viewGame(id uuid.UUID) (gameView, error) {
	var view gameView
	err := s.store.ViewGame(id, func(g *game.Game) error {
		view = buildGameView(g, s.inactiveTimeout())
		return nil
	})
	return view, err
}

func currentRoundNumber(g *game.Game) int {
	if round := g.CurrentRound(); round != nil {
		return round.Number()
	}
	return 0
}

func logEvents(gameID uuid.UUID, code game.Code, events []game.Event) {
	for _, event := range events {
		switch event.Type {
		case game.EventPhaseChanged:
			log.Printf("game phase changed game_id=%s code=%s from=%s to=%s reason=%s", gameID, code, event.From, event.To, event.Reason)
		case game.EventGameOver:
			log.Printf("game over game_id=%s code=%s winner_id=%s reason=%s", gameID, code, event.PlayerID, event.Reason)
		default:
			log.Printf("game event game_id=%s code=%s type=%s player_id=%s round=%d", gameID, code, event.Type, event.PlayerID, event.RoundNumber)
		}
	}
}
