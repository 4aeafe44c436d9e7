package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game stores the aggregate root. Decks are JSON arrays of card ids, front of
// the deck first.
type Game struct {
	ID             string         `gorm:"primaryKey;size:36"`
	Code           string         `gorm:"size:6;uniqueIndex;not null"`
	Phase          string         `gorm:"size:32;not null"`
	Status         string         `gorm:"size:16;not null;index"`
	WinningScore   int            `gorm:"not null;default:7"`
	WinnerID       *string        `gorm:"size:36"`
	JudgeSeat      int            `gorm:"not null"`
	ResponseDeck   datatypes.JSON `gorm:"not null"`
	PromptDeck     datatypes.JSON `gorm:"not null"`
	CurrentRoundID *string        `gorm:"size:36"`
	CreatedAt      time.Time      `gorm:"not null"`
	StartedAt      *time.Time
	EndedAt        *time.Time
	UpdatedAt      time.Time `gorm:"not null"`
	Players        []Player
	Rounds         []Round
	Events         []Event
}
