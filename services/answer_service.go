package services

import (
	"context"
	"strconv"
	"strings"

	"partygames/models"
	"partygames/store"
)

// AnswerService collects player answers during a round. Letters games take
// per-letter answers that stay editable for the whole round; quiz games take
// one answer for the live question and lock it on submit.
type AnswerService struct {
	store store.Store
	bus   *Bus
}

func NewAnswerService(st store.Store, bus *Bus) *AnswerService {
	return &AnswerService{store: st, bus: bus}
}

// Submit writes one slot for a player. The round must have been started and
// not yet ended; a paused timer does not block typing.
func (s *AnswerService) Submit(ctx context.Context, code, playerKey, slot, text string) error {
	session, err := s.store.Session(ctx, code)
	if err != nil {
		return err
	}
	round, err := s.store.Round(ctx, code)
	if err != nil {
		return err
	}
	if !round.Active {
		return &models.InvalidStateError{Op: "submit an answer", State: round.State()}
	}

	switch session.Variant {
	case models.VariantLetters:
		slot = strings.ToUpper(strings.TrimSpace(slot))
		if len(slot) != 1 || slot[0] < 'A' || slot[0] > 'Z' {
			return models.NewValidationError("slot must be a letter A-Z, got %q", slot)
		}
	case models.VariantQuiz:
		index, err := strconv.Atoi(slot)
		if err != nil || index != round.QuestionIndex {
			return models.NewValidationError("slot must be the current question index %d", round.QuestionIndex)
		}
		existing, err := s.store.Answers(ctx, code, playerKey)
		if err != nil {
			return err
		}
		if strings.TrimSpace(existing[slot]) != "" {
			// Lock on submit: one answer per question, no edits after sending.
			return &models.InvalidStateError{Op: "resubmit an answer", State: "locked"}
		}
	}

	if err := s.store.PutAnswer(ctx, code, playerKey, slot, text); err != nil {
		return err
	}

	publishPlayer(ctx, s.store, s.bus, code, playerKey)
	publishRoster(ctx, s.store, s.bus, code)
	return nil
}

// Answers returns the player's slot map. Whitespace-only entries count as
// not answered and are dropped.
func (s *AnswerService) Answers(ctx context.Context, code, playerKey string) (map[string]string, error) {
	answers, err := s.store.Answers(ctx, code, playerKey)
	if err != nil {
		return nil, err
	}
	for slot, text := range answers {
		if strings.TrimSpace(text) == "" {
			delete(answers, slot)
		}
	}
	return answers, nil
}

// SubmitWager records a final-round stake. A wager can never exceed what the
// player currently has, checked here again regardless of any client-side
// guard.
func (s *AnswerService) SubmitWager(ctx context.Context, code, playerKey string, wager int) error {
	player, err := s.store.Player(ctx, code, playerKey)
	if err != nil {
		return err
	}
	if wager < 0 {
		return models.NewValidationError("wager cannot be negative")
	}
	if wager > player.Score {
		return models.NewValidationError("wager %d exceeds current score %d", wager, player.Score)
	}
	if err := s.store.SetWager(ctx, code, playerKey, wager); err != nil {
		return err
	}

	publishPlayer(ctx, s.store, s.bus, code, playerKey)
	publishRoster(ctx, s.store, s.bus, code)
	return nil
}
