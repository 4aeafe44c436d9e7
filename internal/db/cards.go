package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pears2pears/internal/game"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardRecord is one row of a card file: kind,text,extra.
type CardRecord struct {
	Kind  game.CardKind
	Text  string
	Extra string
}

// ReadCardFile parses a CSV card file. The first row is a header. Rows with
// an unknown kind or blank text are skipped.
func ReadCardFile(path string) ([]CardRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCards(file)
}

func ReadCards(r io.Reader) ([]CardRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []CardRecord
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		kind, err := game.ParseCardKind(row[0])
		if err != nil {
			continue
		}
		text := strings.TrimSpace(row[1])
		if text == "" {
			continue
		}
		extra := ""
		if len(row) >= 3 {
			extra = strings.TrimSpace(row[2])
		}
		records = append(records, CardRecord{Kind: kind, Text: text, Extra: extra})
	}
	return records, nil
}

// NewCards turns file records into cards with fresh ids.
func NewCards(records []CardRecord) ([]game.Card, error) {
	cards := make([]game.Card, 0, len(records))
	for _, record := range records {
		card, err := newCard(record)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func newCard(record CardRecord) (game.Card, error) {
	switch record.Kind {
	case game.KindPrompt:
		return game.NewPromptCard(record.Text, record.Extra)
	case game.KindResponse:
		return game.NewResponseCard(record.Text, record.Extra)
	default:
		return game.Card{}, fmt.Errorf("unknown card kind %d", record.Kind)
	}
}

// Library is the card catalog stored in the cards table.
type Library struct {
	conn *gorm.DB
}

func NewLibrary(conn *gorm.DB) *Library {
	return &Library{conn: conn}
}

// Import upserts records by kind and text and returns how many rows were
// created.
func (l *Library) Import(records []CardRecord) (int, error) {
	if l.conn == nil {
		return 0, errors.New("db connection is nil")
	}
	inserted := 0
	for _, record := range records {
		card, err := newCard(record)
		if err != nil {
			return inserted, err
		}
		row := CardFromDomain(card)
		var entry Card
		result := l.conn.
			Where(Card{Kind: row.Kind, Text: row.Text}).
			Attrs(row).
			FirstOrCreate(&entry)
		if result.Error != nil {
			return inserted, result.Error
		}
		if result.RowsAffected > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// Cards returns every library card of one kind, oldest first.
func (l *Library) Cards(kind game.CardKind) ([]game.Card, error) {
	var rows []Card
	if err := l.conn.Where("kind = ?", kind.String()).Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return CardsToDomain(rows)
}

func CardFromDomain(card game.Card) Card {
	return Card{
		ID:        card.ID().String(),
		Kind:      card.Kind().String(),
		Text:      card.Text(),
		Extra:     card.Extra(),
		CreatedAt: card.CreatedAt(),
	}
}

func CardToDomain(row Card) (game.Card, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return game.Card{}, fmt.Errorf("card %q: %w", row.ID, err)
	}
	kind, err := game.ParseCardKind(row.Kind)
	if err != nil {
		return game.Card{}, err
	}
	return game.RestoreCard(id, kind, row.Text, row.Extra, row.CreatedAt.UTC().Truncate(time.Microsecond))
}

func CardsToDomain(rows []Card) ([]game.Card, error) {
	cards := make([]game.Card, 0, len(rows))
	for _, row := range rows {
		card, err := CardToDomain(row)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
