package db

import "time"

type Player struct {
	ID           string    `gorm:"primaryKey;size:36"`
	GameID       string    `gorm:"size:36;index;not null;uniqueIndex:idx_players_game_nickname"`
	Nickname     string    `gorm:"size:20;not null"`
	NicknameKey  string    `gorm:"size:20;not null;uniqueIndex:idx_players_game_nickname"`
	Seat         int       `gorm:"not null"`
	Score        int       `gorm:"not null"`
	Role         string    `gorm:"size:16;not null"`
	Connected    bool      `gorm:"not null"`
	IsHost       bool      `gorm:"not null"`
	JoinedAt     time.Time `gorm:"not null"`
	LastActiveAt time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	HandCards    []HandCard
}
