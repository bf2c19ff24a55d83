package handlers

import (
	"time"

	"partygames/models"
)

// roundView is the round document plus the derived fields clients render
// directly: state name, remaining time, and the current board position.
type roundView struct {
	models.RoundState
	State           string `json:"state"`
	TimeLeftMs      int64  `json:"time_left_ms"`
	CurrentCategory string `json:"current_category,omitempty"`
	CurrentValue    int    `json:"current_value,omitempty"`
}

func newRoundView(round models.RoundState) roundView {
	return roundView{
		RoundState:      round,
		State:           round.State(),
		TimeLeftMs:      round.TimeLeft(time.Now()).Milliseconds(),
		CurrentCategory: round.CurrentCategory(),
		CurrentValue:    round.CurrentValue(),
	}
}
