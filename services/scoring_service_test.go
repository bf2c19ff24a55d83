package services

import (
	"context"
	"testing"

	"partygames/models"
	"partygames/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoScore(t *testing.T) {
	tests := []struct {
		name   string
		letter rune
		answer string
		others []string
		want   ScoreResult
	}{
		{
			name:   "unique answer scores",
			letter: 'C',
			answer: "Cat",
			others: []string{"Cow", "Crab"},
			want:   ScoreResult{Point: true},
		},
		{
			name:   "duplicate ignores case and whitespace",
			letter: 'C',
			answer: "Cat",
			others: []string{"cat ", "Dog"},
			want:   ScoreResult{Duplicate: true},
		},
		{
			name:   "wrong starting letter",
			letter: 'C',
			answer: "Dog",
			others: nil,
			want:   ScoreResult{WrongLetter: true},
		},
		{
			name:   "lowercase answer matches uppercase letter",
			letter: 'C',
			answer: "carrot",
			others: nil,
			want:   ScoreResult{Point: true},
		},
		{
			name:   "empty answer",
			letter: 'C',
			answer: "",
			others: []string{"Cat"},
			want:   ScoreResult{},
		},
		{
			name:   "whitespace-only answer",
			letter: 'C',
			answer: "   ",
			others: []string{"Cat"},
			want:   ScoreResult{},
		},
		{
			name:   "leading whitespace trimmed before letter check",
			letter: 'C',
			answer: "  Cactus",
			others: nil,
			want:   ScoreResult{Point: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoScore(tt.letter, tt.answer, tt.others))
		})
	}
}

func TestScoreRoundThreeWayTie(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewScoringService(st, NewBus())

	for _, key := range []string{"alice", "bob", "carol"} {
		addPlayer(t, st, key)
		require.NoError(t, st.PutAnswer(ctx, testCode, key, "C", "Cat"))
	}

	results, err := svc.ScoreRound(ctx, testCode)
	require.NoError(t, err)

	// All three wrote the same answer, so nobody scores.
	for _, key := range []string{"alice", "bob", "carol"} {
		assert.Equal(t, ScoreResult{Duplicate: true}, results[key]["C"], key)
	}
}

func TestScoreRoundEmptySlotsNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewScoringService(st, NewBus())

	addPlayer(t, st, "alice")
	addPlayer(t, st, "bob")
	require.NoError(t, st.PutAnswer(ctx, testCode, "alice", "B", "Bread"))
	require.NoError(t, st.PutAnswer(ctx, testCode, "bob", "B", "   "))

	results, err := svc.ScoreRound(ctx, testCode)
	require.NoError(t, err)

	assert.Equal(t, ScoreResult{Point: true}, results["alice"]["B"])
	assert.Equal(t, ScoreResult{}, results["bob"]["B"])
	assert.Equal(t, ScoreResult{}, results["alice"]["A"], "unanswered slot")
}

func TestCommitLetterScores(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewScoringService(st, NewBus())
	addPlayer(t, st, "alice")

	// The admin overrode C to false after review.
	points, err := svc.CommitLetterScores(ctx, testCode, "alice", map[string]bool{
		"A": true, "B": true, "C": false,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, points)

	player, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, player.Score)
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": false}, player.LetterScores)

	// A second round's points add to the running total.
	points, err = svc.CommitLetterScores(ctx, testCode, "alice", map[string]bool{"D": true})
	require.NoError(t, err)
	assert.Equal(t, 1, points)

	player, err = st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, player.Score)
}

func setupQuizBoard(t *testing.T, st store.Store) {
	t.Helper()
	round := models.NewRoundState()
	round.Categories = []string{"History", "Science"}
	round.Values = []int{200, 400}
	require.NoError(t, st.SaveRound(context.Background(), testCode, round))
}

func TestJudgeQuestionAwardsValue(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewScoringService(st, NewBus())
	addPlayer(t, st, "alice")
	addPlayer(t, st, "bob")
	setupQuizBoard(t, st)

	outcomes, err := svc.JudgeQuestion(ctx, testCode, 0, map[string]Judgment{
		"alice": JudgmentCorrect,
		"bob":   JudgmentIncorrect,
	})
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)

	alice, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 200, alice.Score)

	bob, err := st.Player(ctx, testCode, "bob")
	require.NoError(t, err)
	assert.Zero(t, bob.Score, "incorrect costs nothing outside the final round")
}

func TestJudgeQuestionIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewScoringService(st, NewBus())
	addPlayer(t, st, "alice")
	setupQuizBoard(t, st)

	judgments := map[string]Judgment{"alice": JudgmentCorrect}
	_, err := svc.JudgeQuestion(ctx, testCode, 0, judgments)
	require.NoError(t, err)

	// Resubmitting the same batch cannot double-apply.
	_, err = svc.JudgeQuestion(ctx, testCode, 0, judgments)
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	alice, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 200, alice.Score)
}

func TestJudgeQuestionWrongIndex(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewScoringService(st, NewBus())
	addPlayer(t, st, "alice")
	setupQuizBoard(t, st)

	_, err := svc.JudgeQuestion(ctx, testCode, 2, map[string]Judgment{"alice": JudgmentCorrect})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestJudgeQuestionFinalRoundWagers(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewScoringService(st, NewBus())
	setupQuizBoard(t, st)

	addPlayer(t, st, "alice")
	addPlayer(t, st, "bob")
	require.NoError(t, st.AddScore(ctx, testCode, "alice", 1000))
	require.NoError(t, st.AddScore(ctx, testCode, "bob", 800))
	require.NoError(t, st.SetWager(ctx, testCode, "alice", 600))
	require.NoError(t, st.SetWager(ctx, testCode, "bob", 800))

	round, err := st.Round(ctx, testCode)
	require.NoError(t, err)
	round.FinalRound = true
	require.NoError(t, st.SaveRound(ctx, testCode, round))

	_, err = svc.JudgeQuestion(ctx, testCode, 0, map[string]Judgment{
		"alice": JudgmentCorrect,
		"bob":   JudgmentIncorrect,
	})
	require.NoError(t, err)

	alice, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1600, alice.Score, "correct adds the wager")

	bob, err := st.Player(ctx, testCode, "bob")
	require.NoError(t, err)
	assert.Zero(t, bob.Score, "incorrect subtracts the wager")
}

func TestAdjustScore(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewScoringService(st, NewBus())
	addPlayer(t, st, "alice")

	require.NoError(t, svc.AdjustScore(ctx, testCode, "alice", 300))
	require.NoError(t, svc.AdjustScore(ctx, testCode, "alice", -100))

	alice, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 200, alice.Score)
}
