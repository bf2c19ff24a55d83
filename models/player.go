package models

import (
	"time"

	"gorm.io/gorm"
)

// Player is one participant in a session. Key is the normalized display
// name (trimmed, case-folded) and doubles as the rejoin identity: signing
// up again with the same name merges into the existing record.
type Player struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID uint   `json:"session_id" gorm:"not null;uniqueIndex:idx_players_session_key,priority:1"`
	Key       string `json:"key" gorm:"not null;uniqueIndex:idx_players_session_key,priority:2"`
	Name      string `json:"name" gorm:"not null"`
	Score     int    `json:"score" gorm:"not null;default:0"`
	Wager     int    `json:"wager" gorm:"not null;default:0"`
	Order     int    `json:"order" gorm:"not null;default:0"`

	// Final per-letter point map committed by the admin after a letters round.
	LetterScores map[string]bool `json:"letter_scores,omitempty" gorm:"serializer:json"`

	// Current answers keyed by slot, loaded from the answer table.
	Answers map[string]string `json:"answers,omitempty" gorm:"-"`

	JoinedAt  time.Time      `json:"joined_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
