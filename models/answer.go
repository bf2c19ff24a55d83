package models

import (
	"time"
)

// Answer is one submitted slot value. Slots are question indexes in the
// quiz variant and letters A-Z in the letters variant. One row per
// (session, player, slot) so concurrent writes to different slots never
// overwrite each other.
type Answer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_answers_slot,priority:1"`
	PlayerKey string    `json:"player_key" gorm:"not null;uniqueIndex:idx_answers_slot,priority:2"`
	Slot      string    `json:"slot" gorm:"not null;uniqueIndex:idx_answers_slot,priority:3"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
