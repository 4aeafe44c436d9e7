package game

import "github.com/google/uuid"

// HandSize is the number of response cards a full hand holds.
const HandSize = 7

// Hand is an ordered set of distinct response cards, never larger than HandSize.
type Hand struct {
	cards []Card
}

func (h *Hand) Add(card Card) error {
	if card.kind != KindResponse {
		return failf(ErrInvalidArgument, "only response cards can be held (got %s)", card.kind)
	}
	if h.Has(card.id) {
		return failf(ErrConflict, "card %s already in hand", card.id)
	}
	if h.IsFull() {
		return failf(ErrCapacityExceeded, "hand is full (max %d cards)", HandSize)
	}
	h.cards = append(h.cards, card)
	return nil
}

// AddAll adds every card or none of them.
func (h *Hand) AddAll(cards []Card) error {
	if len(h.cards)+len(cards) > HandSize {
		return failf(ErrCapacityExceeded, "hand cannot hold %d more cards (max %d)", len(cards), HandSize)
	}
	seen := make(map[uuid.UUID]struct{}, len(cards))
	for _, card := range cards {
		if card.kind != KindResponse {
			return failf(ErrInvalidArgument, "only response cards can be held (got %s)", card.kind)
		}
		if _, dup := seen[card.id]; dup || h.Has(card.id) {
			return failf(ErrConflict, "card %s already in hand", card.id)
		}
		seen[card.id] = struct{}{}
	}
	h.cards = append(h.cards, cards...)
	return nil
}

// Play removes the card and returns it.
func (h *Hand) Play(id uuid.UUID) (Card, error) {
	card, ok := h.Remove(id)
	if !ok {
		return Card{}, failf(ErrNotFound, "card %s not in hand", id)
	}
	return card, nil
}

func (h *Hand) Remove(id uuid.UUID) (Card, bool) {
	for i, card := range h.cards {
		if card.id == id {
			h.cards = append(h.cards[:i:i], h.cards[i+1:]...)
			return card, true
		}
	}
	return Card{}, false
}

func (h *Hand) Has(id uuid.UUID) bool {
	_, ok := h.Get(id)
	return ok
}

func (h *Hand) Get(id uuid.UUID) (Card, bool) {
	for _, card := range h.cards {
		if card.id == id {
			return card, true
		}
	}
	return Card{}, false
}

// Cards returns the held cards in order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int { return len(h.cards) }
func (h *Hand) IsFull() bool { return len(h.cards) >= HandSize }
func (h *Hand) IsEmpty() bool { return len(h.cards) == 0 }

func (h *Hand) CardsNeededToFill() int {
	return HandSize - len(h.cards)
}

func (h *Hand) Clear() {
	h.cards = nil
}
