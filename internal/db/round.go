package db

import (
	"time"

	"gorm.io/datatypes"
)

// Round stores one judging cycle. Submissions maps player id to card id.
type Round struct {
	ID           string         `gorm:"primaryKey;size:36"`
	GameID       string         `gorm:"size:36;index;not null;uniqueIndex:idx_rounds_game_number"`
	Number       int            `gorm:"not null;uniqueIndex:idx_rounds_game_number"`
	JudgeID      string         `gorm:"size:36;not null"`
	PromptCardID string         `gorm:"size:36;not null"`
	WinnerID     *string        `gorm:"size:36"`
	Submissions  datatypes.JSON `gorm:"not null"`
	AllSubmitted bool           `gorm:"not null"`
	StartedAt    time.Time      `gorm:"not null"`
	EndedAt      *time.Time
	UpdatedAt    time.Time `gorm:"not null"`
}
