package services

import (
	"context"
	"time"

	"partygames/models"
	"partygames/store"
)

// RoundService drives the round lifecycle for a session. All transitions go
// through the round document in the store and are fanned out on the round
// topic before the call returns.
type RoundService struct {
	store store.Store
	bus   *Bus
	now   func() time.Time
}

func NewRoundService(st store.Store, bus *Bus) *RoundService {
	return &RoundService{store: st, bus: bus, now: time.Now}
}

func (s *RoundService) Round(ctx context.Context, code string) (models.RoundState, error) {
	return s.store.Round(ctx, code)
}

// Start begins a timed round and clears every player's answers from the
// previous one. Starting while a round is running is rejected.
func (s *RoundService) Start(ctx context.Context, code, prompt string, duration time.Duration) (models.RoundState, error) {
	round, err := s.store.Round(ctx, code)
	if err != nil {
		return models.RoundState{}, err
	}
	if err := round.Start(prompt, duration, s.now()); err != nil {
		return models.RoundState{}, err
	}
	if err := s.store.ClearAnswers(ctx, code); err != nil {
		return models.RoundState{}, err
	}
	if err := s.store.SaveRound(ctx, code, round); err != nil {
		return models.RoundState{}, err
	}

	s.bus.Publish(RoundTopic(code), round)
	publishRoster(ctx, s.store, s.bus, code)
	return round, nil
}

func (s *RoundService) Pause(ctx context.Context, code string) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		return round.Pause(s.now())
	})
}

func (s *RoundService) Resume(ctx context.Context, code string) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		return round.Resume(s.now())
	})
}

// End closes the round from any state. Multiple observers race to call this
// when the countdown hits zero; ending an idle round is a no-op.
func (s *RoundService) End(ctx context.Context, code string) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.End()
		return nil
	})
}

// Advance steps the quiz to the next question, wrapping around the board.
func (s *RoundService) Advance(ctx context.Context, code string) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.Advance()
		return nil
	})
}

func (s *RoundService) SetPrompt(ctx context.Context, code, prompt string) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.Prompt = prompt
		return nil
	})
}

// SetupBoard configures the quiz board. Empty values fall back to the
// standard five-row column.
func (s *RoundService) SetupBoard(ctx context.Context, code string, categories, doubleCategories []string, values []int) (models.RoundState, error) {
	if len(categories) == 0 {
		return models.RoundState{}, models.NewValidationError("board needs at least one category")
	}
	if len(values) == 0 {
		values = models.DefaultBoardValues
	}
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.Categories = categories
		round.DoubleCategories = doubleCategories
		round.Values = values
		round.QuestionIndex = 0
		round.LastJudged = -1
		return nil
	})
}

func (s *RoundService) SetDouble(ctx context.Context, code string, on bool) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.SetDouble(on)
		return nil
	})
}

func (s *RoundService) SetFinal(ctx context.Context, code string, on bool) (models.RoundState, error) {
	return s.transition(ctx, code, func(round *models.RoundState) error {
		round.FinalRound = on
		return nil
	})
}

// Reset returns the whole game to its initial state. The letters variant
// deletes the roster outright; the quiz variant keeps its fixed roster and
// zeroes scores, wagers and answers.
func (s *RoundService) Reset(ctx context.Context, code string) error {
	session, err := s.store.Session(ctx, code)
	if err != nil {
		return err
	}

	if session.Variant == models.VariantLetters {
		players, err := s.store.Players(ctx, code)
		if err != nil {
			return err
		}
		if err := s.store.DeletePlayers(ctx, code); err != nil {
			return err
		}
		for _, player := range players {
			s.bus.Drop(PlayerTopic(code, player.Key))
		}
	} else {
		if err := s.store.ResetPlayers(ctx, code); err != nil {
			return err
		}
		if err := s.store.ClearAnswers(ctx, code); err != nil {
			return err
		}
	}

	round, err := s.store.Round(ctx, code)
	if err != nil {
		return err
	}
	fresh := models.NewRoundState()
	// Board config survives a reset; the walk through it starts over.
	fresh.Categories = round.Categories
	fresh.DoubleCategories = round.DoubleCategories
	fresh.Values = round.Values
	if err := s.store.SaveRound(ctx, code, fresh); err != nil {
		return err
	}

	s.bus.Publish(RoundTopic(code), fresh)
	publishRoster(ctx, s.store, s.bus, code)
	return nil
}

func (s *RoundService) transition(ctx context.Context, code string, apply func(*models.RoundState) error) (models.RoundState, error) {
	round, err := s.store.Round(ctx, code)
	if err != nil {
		return models.RoundState{}, err
	}
	if err := apply(&round); err != nil {
		return models.RoundState{}, err
	}
	if err := s.store.SaveRound(ctx, code, round); err != nil {
		return models.RoundState{}, err
	}
	s.bus.Publish(RoundTopic(code), round)
	return round, nil
}
