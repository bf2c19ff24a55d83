package models

import (
	"time"

	"gorm.io/gorm"
)

// Game variants. Quiz is the board-and-wager game with admin judging,
// Letters is the A-Z category game with automatic scoring.
const (
	VariantQuiz    = "quiz"
	VariantLetters = "letters"
)

type Session struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Variant   string         `json:"variant" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Players []Player `json:"players,omitempty" gorm:"foreignKey:SessionID"`
}
