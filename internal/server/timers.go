package server

import (
	"errors"
	"log"
	"time"

	"pears2pears/internal/game"

	"github.com/google/uuid"
)

var errRoundMoved = errors.New("round already advanced")

// scheduleRoundTimer starts the next round once the round-end pause is over.
// Any other phase cancels a pending timer.
func (s *Server) scheduleRoundTimer(gameID uuid.UUID, phase game.Phase, roundNumber int) {
	duration := s.roundEndDuration()
	if phase != game.PhaseRoundEnd || duration <= 0 {
		s.cancelRoundTimer(gameID)
		return
	}
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if existing, ok := s.timers[gameID]; ok {
		existing.Stop()
	}
	s.timers[gameID] = time.AfterFunc(duration, func() {
		s.autoStartRound(gameID, roundNumber)
	})
}

func (s *Server) cancelRoundTimer(gameID uuid.UUID) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[gameID]; ok {
		timer.Stop()
		delete(s.timers, gameID)
	}
}

func (s *Server) roundEndDuration() time.Duration {
	return time.Duration(s.cfg.RoundEndSeconds) * time.Second
}

func (s *Server) autoStartRound(gameID uuid.UUID, expectedRound int) {
	_, err := s.mutateGame(gameID, func(g *game.Game) error {
		if g.Phase() != game.PhaseRoundEnd || currentRoundNumber(g) != expectedRound {
			return errRoundMoved
		}
		return g.StartNewRound()
	})
	switch {
	case err == nil, errors.Is(err, errRoundMoved), errors.Is(err, errGameNotFound):
		return
	default:
		log.Printf("auto round start failed game_id=%s round=%d error=%v", gameID, expectedRound+1, err)
		s.broadcastError(gameID, err)
	}
}
