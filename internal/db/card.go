package db

import "time"

// Card is a library entry. Games reference cards by id from their decks,
// hands and rounds.
type Card struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Kind      string    `gorm:"size:16;not null;index:idx_cards_kind_text"`
	Text      string    `gorm:"size:100;not null;index:idx_cards_kind_text"`
	Extra     string    `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}
