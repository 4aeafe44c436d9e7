package server

import (
	"fmt"
	"sync"

	"pears2pears/internal/config"
	"pears2pears/internal/db"
	"pears2pears/internal/game"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CardSource supplies every available card of a kind.
type CardSource interface {
	Cards(kind game.CardKind) ([]game.Card, error)
}

func defaultCardSource(conn *gorm.DB, cfg config.Config) CardSource {
	if conn != nil {
		return db.NewLibrary(conn)
	}
	return &fileCards{path: cfg.CardsPath}
}

// fileCards reads a CSV card file once, on first use.
type fileCards struct {
	path string
	once sync.Once
	set  cardSet
	err  error
}

func (f *fileCards) Cards(kind game.CardKind) ([]game.Card, error) {
	f.once.Do(func() {
		records, err := db.ReadCardFile(f.path)
		if err != nil {
			f.err = fmt.Errorf("read cards %s: %w", f.path, err)
			return
		}
		cards, err := db.NewCards(records)
		if err != nil {
			f.err = err
			return
		}
		f.set = newCardSet(cards)
	})
	if f.err != nil {
		return nil, f.err
	}
	return f.set.Cards(kind)
}

type cardSet map[game.CardKind][]game.Card

func newCardSet(cards []game.Card) cardSet {
	return cardSet(lo.GroupBy(cards, func(card game.Card) game.CardKind {
		return card.Kind()
	}))
}

func (c cardSet) Cards(kind game.CardKind) ([]game.Card, error) {
	return append([]game.Card(nil), c[kind]...), nil
}

// buildDecks draws both decks from the card source, sampled down to the
// configured sizes.
func (s *Server) buildDecks() ([]game.Card, []game.Card, error) {
	responses, err := s.cards.Cards(game.KindResponse)
	if err != nil {
		return nil, nil, err
	}
	prompts, err := s.cards.Cards(game.KindPrompt)
	if err != nil {
		return nil, nil, err
	}
	if len(responses) == 0 || len(prompts) == 0 {
		return nil, nil, fmt.Errorf("%w: card library has %d responses and %d prompts", game.ErrResourceExhausted, len(responses), len(prompts))
	}
	return sampleDeck(responses, s.cfg.ResponseDeckSize), sampleDeck(prompts, s.cfg.PromptDeckSize), nil
}

func sampleDeck(cards []game.Card, size int) []game.Card {
	if size <= 0 || size >= len(cards) {
		return cards
	}
	return lo.Samples(cards, size)
}
