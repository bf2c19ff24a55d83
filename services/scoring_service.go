package services

import (
	"context"
	"strings"
	"unicode"

	"partygames/models"
	"partygames/store"
)

// Letters is the slot alphabet for the letters variant.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Judgments the admin can assign per player per question.
type Judgment string

const (
	JudgmentCorrect   Judgment = "correct"
	JudgmentIncorrect Judgment = "incorrect"
	JudgmentNone      Judgment = ""
)

// ScoreResult is the automatic verdict for one (player, letter) answer.
type ScoreResult struct {
	Point       bool `json:"point"`
	Duplicate   bool `json:"duplicate"`
	WrongLetter bool `json:"wrong_letter"`
}

// AutoScore decides whether an answer earns a point for a letter: it must be
// non-empty, start with the letter, and not match any other player's answer
// for the same letter after trimming and case-folding. Three identical
// answers all score zero, not just the later two. Pure function of its
// inputs, so the verdict is the same no matter the player iteration order.
func AutoScore(letter rune, answer string, others []string) ScoreResult {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return ScoreResult{}
	}

	first := []rune(trimmed)[0]
	if unicode.ToUpper(first) != unicode.ToUpper(letter) {
		return ScoreResult{WrongLetter: true}
	}

	normalized := strings.ToLower(trimmed)
	for _, other := range others {
		if strings.ToLower(strings.TrimSpace(other)) == normalized {
			return ScoreResult{Duplicate: true}
		}
	}
	return ScoreResult{Point: true}
}

// JudgeOutcome reports one player's result from a judgment batch. Outcomes
// are independent: one player's failed write never rolls back the others.
type JudgeOutcome struct {
	PlayerKey string `json:"player_key"`
	Delta     int    `json:"delta"`
	Error     string `json:"error,omitempty"`
}

// ScoringService turns collected answers into score deltas: automatically
// for letters games, from admin judgments for quiz games. All score commits
// are additive increments.
type ScoringService struct {
	store store.Store
	bus   *Bus
}

func NewScoringService(st store.Store, bus *Bus) *ScoringService {
	return &ScoringService{store: st, bus: bus}
}

// ScoreRound computes the automatic verdict for every player and letter,
// ready for admin review. Empty slots of other players never count as
// duplicates.
func (s *ScoringService) ScoreRound(ctx context.Context, code string) (map[string]map[string]ScoreResult, error) {
	players, err := s.store.Players(ctx, code)
	if err != nil {
		return nil, err
	}

	results := make(map[string]map[string]ScoreResult, len(players))
	for _, player := range players {
		verdicts := make(map[string]ScoreResult, len(Letters))
		for _, letter := range Letters {
			slot := string(letter)
			others := make([]string, 0, len(players)-1)
			for _, other := range players {
				if other.Key == player.Key {
					continue
				}
				if text := strings.TrimSpace(other.Answers[slot]); text != "" {
					others = append(others, text)
				}
			}
			verdicts[slot] = AutoScore(letter, player.Answers[slot], others)
		}
		results[player.Key] = verdicts
	}
	return results, nil
}

// CommitLetterScores stores the final per-letter point map for one player,
// after any admin overrides, and adds the round's points to their cumulative
// total. Returns the points awarded.
func (s *ScoringService) CommitLetterScores(ctx context.Context, code, playerKey string, scores map[string]bool) (int, error) {
	points := 0
	for _, earned := range scores {
		if earned {
			points++
		}
	}

	if err := s.store.SetLetterScores(ctx, code, playerKey, scores); err != nil {
		return 0, err
	}
	if err := s.store.AddScore(ctx, code, playerKey, points); err != nil {
		return 0, err
	}

	publishPlayer(ctx, s.store, s.bus, code, playerKey)
	publishRoster(ctx, s.store, s.bus, code)
	return points, nil
}

// JudgeQuestion applies the admin's verdicts for the current quiz question.
// Regular rounds award the question's value on correct and nothing
// otherwise; the final round awards the player's own wager on correct and
// subtracts it on incorrect. Each question is judged at most once: the
// round document remembers the last judged index, so resubmitting the same
// batch cannot double-apply.
func (s *ScoringService) JudgeQuestion(ctx context.Context, code string, questionIndex int, judgments map[string]Judgment) ([]JudgeOutcome, error) {
	round, err := s.store.Round(ctx, code)
	if err != nil {
		return nil, err
	}
	if questionIndex != round.QuestionIndex {
		return nil, models.NewValidationError("question %d is not the current question %d", questionIndex, round.QuestionIndex)
	}
	if round.LastJudged == questionIndex {
		return nil, &models.InvalidStateError{Op: "judge question again", State: "judged"}
	}

	players, err := s.store.Players(ctx, code)
	if err != nil {
		return nil, err
	}
	wagers := make(map[string]int, len(players))
	for _, player := range players {
		wagers[player.Key] = player.Wager
	}

	outcomes := make([]JudgeOutcome, 0, len(judgments))
	for key, judgment := range judgments {
		delta := 0
		if round.FinalRound {
			switch judgment {
			case JudgmentCorrect:
				delta = wagers[key]
			case JudgmentIncorrect:
				delta = -wagers[key]
			}
		} else if judgment == JudgmentCorrect {
			delta = round.CurrentValue()
		}

		outcome := JudgeOutcome{PlayerKey: key, Delta: delta}
		if delta != 0 {
			// Independent increments: keep settling the rest of the batch
			// even if one player's write fails, and report it per player.
			if err := s.store.AddScore(ctx, code, key, delta); err != nil {
				outcome.Delta = 0
				outcome.Error = err.Error()
			}
		}
		outcomes = append(outcomes, outcome)
	}

	round.LastJudged = questionIndex
	if err := s.store.SaveRound(ctx, code, round); err != nil {
		return outcomes, err
	}
	s.bus.Publish(RoundTopic(code), round)
	publishRoster(ctx, s.store, s.bus, code)
	return outcomes, nil
}

// AdjustScore is the admin's manual escape hatch for fixing a player's
// total. The delta may be negative.
func (s *ScoringService) AdjustScore(ctx context.Context, code, playerKey string, delta int) error {
	if err := s.store.AddScore(ctx, code, playerKey, delta); err != nil {
		return err
	}
	publishPlayer(ctx, s.store, s.bus, code, playerKey)
	publishRoster(ctx, s.store, s.bus, code)
	return nil
}
