package server

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pears2pears/internal/db"
	"pears2pears/internal/game"

	"github.com/google/uuid"
)

// loadGameByCode rebuilds a game from the database.
func (s *Server) loadGameByCode(code game.Code) (*game.Game, error) {
	return s.loadGame("code = ?", code.String(), "game "+code.String())
}

func (s *Server) loadGameByID(id uuid.UUID) (*game.Game, error) {
	return s.loadGame("id = ?", id.String(), "game "+id.String())
}

func (s *Server) loadGame(query string, arg any, label string) (*game.Game, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: %s", game.ErrNotFound, label)
	}
	var record db.Game
	if err := s.db.Where(query, arg).First(&record).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", game.ErrNotFound, label)
		}
		return nil, err
	}
	return s.buildGame(record)
}

// restoreActiveGames loads every unfinished game into the store and resumes
// round timers.
func (s *Server) restoreActiveGames() (int, error) {
	if s.db == nil {
		return 0, nil
	}
	var records []db.Game
	if err := s.db.Where("status <> ?", string(game.StatusCompleted)).Order("created_at asc").Find(&records).Error; err != nil {
		return 0, err
	}
	restored := 0
	for _, record := range records {
		if s.store.HasCode(game.Code(record.Code)) {
			continue
		}
		g, err := s.buildGame(record)
		if err != nil {
			log.Printf("game restore failed game_id=%s error=%v", record.ID, err)
			continue
		}
		if err := s.store.AddGame(g); err != nil {
			continue
		}
		s.scheduleRoundTimer(g.ID(), g.Phase(), currentRoundNumber(g))
		restored++
	}
	return restored, nil
}

// RestoreActiveGames is called once at startup.
func (s *Server) RestoreActiveGames() (int, error) {
	return s.restoreActiveGames()
}

func (s *Server) buildGame(record db.Game) (*game.Game, error) {
	var players []db.Player
	if err := s.db.Where("game_id = ?", record.ID).Order("seat asc").Find(&players).Error; err != nil {
		return nil, err
	}
	var hands []db.HandCard
	if err := s.db.Where("game_id = ?", record.ID).Order("player_id asc, position asc").Find(&hands).Error; err != nil {
		return nil, err
	}
	var rounds []db.Round
	if err := s.db.Where("game_id = ?", record.ID).Order("number asc").Find(&rounds).Error; err != nil {
		return nil, err
	}

	var responseIDs, promptIDs []string
	if err := json.Unmarshal(record.ResponseDeck, &responseIDs); err != nil {
		return nil, fmt.Errorf("response deck: %w", err)
	}
	if err := json.Unmarshal(record.PromptDeck, &promptIDs); err != nil {
		return nil, fmt.Errorf("prompt deck: %w", err)
	}
	submissions := make([]map[string]string, len(rounds))
	for i, round := range rounds {
		if err := json.Unmarshal(round.Submissions, &submissions[i]); err != nil {
			return nil, fmt.Errorf("round %d submissions: %w", round.Number, err)
		}
	}

	ids := append(append([]string{}, responseIDs...), promptIDs...)
	for _, hand := range hands {
		ids = append(ids, hand.CardID)
	}
	for i, round := range rounds {
		ids = append(ids, round.PromptCardID)
		for _, cardID := range submissions[i] {
			ids = append(ids, cardID)
		}
	}
	cards, err := s.loadCards(ids)
	if err != nil {
		return nil, err
	}

	snap := game.Snapshot{
		Code:         game.Code(record.Code),
		WinningScore: record.WinningScore,
		JudgeSeat:    record.JudgeSeat,
		CreatedAt:    record.CreatedAt.UTC(),
		Players:      make([]game.PlayerSnapshot, 0, len(players)),
		Rounds:       make([]game.RoundSnapshot, 0, len(rounds)),
	}
	if snap.ID, err = uuid.Parse(record.ID); err != nil {
		return nil, err
	}
	if snap.Phase, err = game.ParsePhase(record.Phase); err != nil {
		return nil, err
	}
	if snap.WinnerID, err = parseOptionalID(record.WinnerID); err != nil {
		return nil, err
	}
	if snap.CurrentRoundID, err = parseOptionalID(record.CurrentRoundID); err != nil {
		return nil, err
	}
	snap.StartedAt = fromOptionalTime(record.StartedAt)
	snap.EndedAt = fromOptionalTime(record.EndedAt)
	if snap.ResponseDeck, err = pickCards(cards, responseIDs); err != nil {
		return nil, err
	}
	if snap.PromptDeck, err = pickCards(cards, promptIDs); err != nil {
		return nil, err
	}

	handIDs := make(map[string][]string)
	for _, hand := range hands {
		handIDs[hand.PlayerID] = append(handIDs[hand.PlayerID], hand.CardID)
	}
	for _, player := range players {
		id, err := uuid.Parse(player.ID)
		if err != nil {
			return nil, err
		}
		role, err := game.ParseRole(player.Role)
		if err != nil {
			return nil, err
		}
		hand, err := pickCards(cards, handIDs[player.ID])
		if err != nil {
			return nil, err
		}
		snap.Players = append(snap.Players, game.PlayerSnapshot{
			ID:           id,
			Nickname:     player.Nickname,
			Score:        player.Score,
			Role:         role,
			Hand:         hand,
			Connected:    player.Connected,
			Host:         player.IsHost,
			JoinedAt:     player.JoinedAt.UTC(),
			LastActiveAt: player.LastActiveAt.UTC(),
		})
	}

	for i, round := range rounds {
		rs, err := buildRoundSnapshot(round, submissions[i], cards)
		if err != nil {
			return nil, err
		}
		snap.Rounds = append(snap.Rounds, rs)
	}
	return game.Restore(snap, s.gameOpts...)
}

func buildRoundSnapshot(round db.Round, submissions map[string]string, cards map[string]game.Card) (game.RoundSnapshot, error) {
	id, err := uuid.Parse(round.ID)
	if err != nil {
		return game.RoundSnapshot{}, err
	}
	judgeID, err := uuid.Parse(round.JudgeID)
	if err != nil {
		return game.RoundSnapshot{}, err
	}
	winnerID, err := parseOptionalID(round.WinnerID)
	if err != nil {
		return game.RoundSnapshot{}, err
	}
	prompt, ok := cards[round.PromptCardID]
	if !ok {
		return game.RoundSnapshot{}, fmt.Errorf("round %d prompt card %s missing", round.Number, round.PromptCardID)
	}
	rs := game.RoundSnapshot{
		ID:           id,
		Number:       round.Number,
		JudgeID:      judgeID,
		Prompt:       prompt,
		Submissions:  make(map[uuid.UUID]game.Card, len(submissions)),
		WinnerID:     winnerID,
		StartedAt:    round.StartedAt.UTC(),
		EndedAt:      fromOptionalTime(round.EndedAt),
		AllSubmitted: round.AllSubmitted,
	}
	for playerID, cardID := range submissions {
		submitter, err := uuid.Parse(playerID)
		if err != nil {
			return game.RoundSnapshot{}, err
		}
		card, ok := cards[cardID]
		if !ok {
			return game.RoundSnapshot{}, fmt.Errorf("round %d card %s missing", round.Number, cardID)
		}
		rs.Submissions[submitter] = card
	}
	return rs, nil
}

func (s *Server) loadCards(ids []string) (map[string]game.Card, error) {
	cards := make(map[string]game.Card, len(ids))
	if len(ids) == 0 {
		return cards, nil
	}
	unique := make(map[string]struct{}, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		keys = append(keys, id)
	}
	const batch = 500
	for start := 0; start < len(keys); start += batch {
		end := min(start+batch, len(keys))
		var rows []db.Card
		if err := s.db.Where("id IN ?", keys[start:end]).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			card, err := db.CardToDomain(row)
			if err != nil {
				return nil, err
			}
			cards[row.ID] = card
		}
	}
	return cards, nil
}

func pickCards(cards map[string]game.Card, ids []string) ([]game.Card, error) {
	out := make([]game.Card, 0, len(ids))
	for _, id := range ids {
		card, ok := cards[id]
		if !ok {
			return nil, fmt.Errorf("card %s missing", id)
		}
		out = append(out, card)
	}
	return out, nil
}

func parseOptionalID(value *string) (uuid.UUID, error) {
	if value == nil || *value == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(*value)
}

func fromOptionalTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return value.UTC()
}
