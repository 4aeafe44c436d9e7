package server

import (
	"encoding/json"
	"strings"
	"time"

	"pears2pears/internal/db"
	"pears2pears/internal/game"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gameRecords struct {
	game    db.Game
	cards   []db.Card
	players []db.Player
	hands   []db.HandCard
	round   *db.Round
	events  []db.Event
}

// persistGame writes the game's current state and the events that led to it
// in one transaction.
func (s *Server) persistGame(g *game.Game, events []game.Event) error {
	if s.db == nil {
		return nil
	}
	records, err := buildRecords(g.Snapshot(), events)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return saveRecords(tx, records)
	})
}

// deleteGame removes a game and everything it owns. Cards stay in the library.
func (s *Server) deleteGame(id uuid.UUID) error {
	if s.db == nil {
		return nil
	}
	gameID := id.String()
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&db.Event{}, &db.Round{}, &db.HandCard{}, &db.Player{}} {
			if err := tx.Where("game_id = ?", gameID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", gameID).Delete(&db.Game{}).Error
	})
}

func saveRecords(tx *gorm.DB, records gameRecords) error {
	if len(records.cards) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(records.cards, 200).Error; err != nil {
			return err
		}
	}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&records.game).Error; err != nil {
		return err
	}

	gameID := records.game.ID
	if err := tx.Where("game_id = ?", gameID).Delete(&db.HandCard{}).Error; err != nil {
		return err
	}
	playerIDs := make([]string, 0, len(records.players))
	for _, player := range records.players {
		playerIDs = append(playerIDs, player.ID)
	}
	removed := tx.Where("game_id = ?", gameID)
	if len(playerIDs) > 0 {
		removed = removed.Where("id NOT IN ?", playerIDs)
	}
	if err := removed.Delete(&db.Player{}).Error; err != nil {
		return err
	}
	if len(records.players) > 0 {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(&records.players).Error; err != nil {
			return err
		}
	}
	if len(records.hands) > 0 {
		if err := tx.Omit(clause.Associations).CreateInBatches(records.hands, 200).Error; err != nil {
			return err
		}
	}
	if records.round != nil {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(records.round).Error; err != nil {
			return err
		}
	}
	if len(records.events) > 0 {
		if err := tx.Omit(clause.Associations).Create(&records.events).Error; err != nil {
			return err
		}
	}
	return nil
}

func buildRecords(snap game.Snapshot, events []game.Event) (gameRecords, error) {
	responseIDs, err := json.Marshal(cardIDs(snap.ResponseDeck))
	if err != nil {
		return gameRecords{}, err
	}
	promptIDs, err := json.Marshal(cardIDs(snap.PromptDeck))
	if err != nil {
		return gameRecords{}, err
	}
	records := gameRecords{
		game: db.Game{
			ID:             snap.ID.String(),
			Code:           snap.Code.String(),
			Phase:          snap.Phase.String(),
			Status:         string(snap.Phase.Status()),
			WinningScore:   snap.WinningScore,
			WinnerID:       optionalID(snap.WinnerID),
			JudgeSeat:      snap.JudgeSeat,
			ResponseDeck:   datatypes.JSON(responseIDs),
			PromptDeck:     datatypes.JSON(promptIDs),
			CurrentRoundID: optionalID(snap.CurrentRoundID),
			CreatedAt:      snap.CreatedAt,
			StartedAt:      optionalTime(snap.StartedAt),
			EndedAt:        optionalTime(snap.EndedAt),
		},
	}

	for seat, player := range snap.Players {
		records.players = append(records.players, db.Player{
			ID:           player.ID.String(),
			GameID:       records.game.ID,
			Nickname:     player.Nickname,
			NicknameKey:  strings.ToLower(player.Nickname),
			Seat:         seat,
			Score:        player.Score,
			Role:         player.Role.String(),
			Connected:    player.Connected,
			IsHost:       player.Host,
			JoinedAt:     player.JoinedAt,
			LastActiveAt: player.LastActiveAt,
		})
		for position, card := range player.Hand {
			records.hands = append(records.hands, db.HandCard{
				GameID:   records.game.ID,
				PlayerID: player.ID.String(),
				CardID:   card.ID().String(),
				Position: position,
			})
		}
	}

	for _, round := range snap.Rounds {
		if round.ID != snap.CurrentRoundID {
			continue
		}
		record, err := buildRoundRecord(records.game.ID, round)
		if err != nil {
			return gameRecords{}, err
		}
		records.round = &record
	}

	decksChanged := false
	for _, event := range events {
		if event.Type == game.EventDecksInitialized {
			decksChanged = true
		}
		record, err := buildEventRecord(records.game.ID, event)
		if err != nil {
			return gameRecords{}, err
		}
		records.events = append(records.events, record)
	}
	if decksChanged {
		records.cards = collectCards(snap)
	}
	return records, nil
}

func buildRoundRecord(gameID string, round game.RoundSnapshot) (db.Round, error) {
	submissions := make(map[string]string, len(round.Submissions))
	for playerID, card := range round.Submissions {
		submissions[playerID.String()] = card.ID().String()
	}
	data, err := json.Marshal(submissions)
	if err != nil {
		return db.Round{}, err
	}
	return db.Round{
		ID:           round.ID.String(),
		GameID:       gameID,
		Number:       round.Number,
		JudgeID:      round.JudgeID.String(),
		PromptCardID: round.Prompt.ID().String(),
		WinnerID:     optionalID(round.WinnerID),
		Submissions:  datatypes.JSON(data),
		AllSubmitted: round.AllSubmitted,
		StartedAt:    round.StartedAt,
		EndedAt:      optionalTime(round.EndedAt),
	}, nil
}

func buildEventRecord(gameID string, event game.Event) (db.Event, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return db.Event{}, err
	}
	return db.Event{
		GameID:      gameID,
		RoundNumber: event.RoundNumber,
		PlayerID:    optionalID(event.PlayerID),
		Type:        string(event.Type),
		Payload:     datatypes.JSON(payload),
		CreatedAt:   event.At,
	}, nil
}

// collectCards lists every card the game references, once each.
func collectCards(snap game.Snapshot) []db.Card {
	seen := make(map[uuid.UUID]struct{})
	var cards []db.Card
	add := func(card game.Card) {
		if card.IsZero() {
			return
		}
		if _, ok := seen[card.ID()]; ok {
			return
		}
		seen[card.ID()] = struct{}{}
		cards = append(cards, db.CardFromDomain(card))
	}
	for _, card := range snap.ResponseDeck {
		add(card)
	}
	for _, card := range snap.PromptDeck {
		add(card)
	}
	for _, player := range snap.Players {
		for _, card := range player.Hand {
			add(card)
		}
	}
	for _, round := range snap.Rounds {
		add(round.Prompt)
		for _, card := range round.Submissions {
			add(card)
		}
	}
	return cards
}

func cardIDs(cards []game.Card) []string {
	ids := make([]string, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID().String())
	}
	return ids
}

func optionalID(id uuid.UUID) *string {
	if id == uuid.Nil {
		return nil
	}
	value := id.String()
	return &value
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	value := t
	return &value
}
