package models

import (
	"time"
)

// Round states.
const (
	RoundIdle   = "idle"
	RoundActive = "active"
	RoundPaused = "paused"
)

// Default quiz board: 6 categories by 5 point values.
var DefaultBoardValues = []int{200, 400, 600, 800, 1000}

// RoundState is the shared round document for one session. It is the single
// source of truth all clients derive their view from; the deadline is
// authoritative while active and not paused, the frozen Remaining value
// while paused.
type RoundState struct {
	Active    bool   `json:"active"`
	Paused    bool   `json:"paused"`
	Deadline  int64  `json:"deadline,omitempty"`  // unix milliseconds
	Remaining int64  `json:"remaining,omitempty"` // milliseconds, set only while paused
	Prompt    string `json:"prompt,omitempty"`

	// Quiz variant fields.
	QuestionIndex    int      `json:"question_index"`
	DoubleRound      bool     `json:"double_round"`
	FinalRound       bool     `json:"final_round"`
	LastJudged       int      `json:"last_judged"`
	Categories       []string `json:"categories,omitempty"`
	DoubleCategories []string `json:"double_categories,omitempty"`
	Values           []int    `json:"values,omitempty"`
}

func NewRoundState() RoundState {
	return RoundState{LastJudged: -1}
}

func (r *RoundState) State() string {
	switch {
	case r.Active && r.Paused:
		return RoundPaused
	case r.Active:
		return RoundActive
	default:
		return RoundIdle
	}
}

// Start begins a new timed round. Valid only from idle.
func (r *RoundState) Start(prompt string, duration time.Duration, now time.Time) error {
	if r.Active {
		return &InvalidStateError{Op: "start", State: r.State()}
	}
	r.Active = true
	r.Paused = false
	r.Deadline = now.Add(duration).UnixMilli()
	r.Remaining = 0
	if prompt != "" {
		r.Prompt = prompt
	}
	return nil
}

// Pause freezes the countdown, storing the time left in Remaining.
func (r *RoundState) Pause(now time.Time) error {
	if r.State() != RoundActive {
		return &InvalidStateError{Op: "pause", State: r.State()}
	}
	remaining := r.Deadline - now.UnixMilli()
	if remaining < 0 {
		remaining = 0
	}
	r.Paused = true
	r.Remaining = remaining
	r.Deadline = 0
	return nil
}

// Resume recomputes the deadline from the frozen Remaining value.
func (r *RoundState) Resume(now time.Time) error {
	if r.State() != RoundPaused {
		return &InvalidStateError{Op: "resume", State: r.State()}
	}
	r.Paused = false
	r.Deadline = now.UnixMilli() + r.Remaining
	r.Remaining = 0
	return nil
}

// End returns the round to idle. Idempotent: expiry is detected by whichever
// observer's timer hits zero first, so racing callers are expected.
func (r *RoundState) End() {
	r.Active = false
	r.Paused = false
	r.Deadline = 0
	r.Remaining = 0
}

// TimeLeft reports how much of the countdown remains.
func (r *RoundState) TimeLeft(now time.Time) time.Duration {
	if !r.Active {
		return 0
	}
	if r.Paused {
		return time.Duration(r.Remaining) * time.Millisecond
	}
	left := r.Deadline - now.UnixMilli()
	if left < 0 {
		left = 0
	}
	return time.Duration(left) * time.Millisecond
}

// BoardSize is the number of questions on the configured board.
func (r *RoundState) BoardSize() int {
	if len(r.Categories) == 0 || len(r.Values) == 0 {
		return 0
	}
	return len(r.Categories) * len(r.Values)
}

// Advance moves to the next question, wrapping around the board.
func (r *RoundState) Advance() {
	size := r.BoardSize()
	if size == 0 {
		return
	}
	r.QuestionIndex = (r.QuestionIndex + 1) % size
}

// SetDouble toggles the double round, which swaps in the double category
// list and restarts the walk through the board.
func (r *RoundState) SetDouble(on bool) {
	r.DoubleRound = on
	r.QuestionIndex = 0
}

// CurrentCategory returns the category for the current question.
func (r *RoundState) CurrentCategory() string {
	cats := r.Categories
	if r.DoubleRound && len(r.DoubleCategories) > 0 {
		cats = r.DoubleCategories
	}
	if len(cats) == 0 {
		return r.Prompt
	}
	return cats[r.QuestionIndex%len(cats)]
}

// CurrentValue returns the point value for the current question, doubled in
// the double round.
func (r *RoundState) CurrentValue() int {
	if len(r.Categories) == 0 || len(r.Values) == 0 {
		return 0
	}
	row := r.QuestionIndex / len(r.Categories)
	if row >= len(r.Values) {
		return 0
	}
	value := r.Values[row]
	if r.DoubleRound {
		value *= 2
	}
	return value
}
