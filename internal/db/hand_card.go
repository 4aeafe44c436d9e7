package db

// HandCard is one held card. Position keeps the order cards were drawn in.
type HandCard struct {
	ID       uint   `gorm:"primaryKey"`
	GameID   string `gorm:"size:36;index;not null"`
	PlayerID string `gorm:"size:36;index;not null"`
	CardID   string `gorm:"size:36;not null"`
	Position int    `gorm:"not null"`
}
