package services

import (
	"context"
	"testing"
	"time"

	"partygames/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRound(t *testing.T, rounds *RoundService) {
	t.Helper()
	_, err := rounds.Start(context.Background(), testCode, "", 3*time.Minute)
	require.NoError(t, err)
}

func TestSubmitRequiresActiveRound(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewAnswerService(st, NewBus())
	addPlayer(t, st, "alice")

	err := svc.Submit(ctx, testCode, "alice", "A", "Apple")
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestSubmitLettersEditableWhileRunning(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	bus := NewBus()
	rounds := NewRoundService(st, bus)
	svc := NewAnswerService(st, bus)
	addPlayer(t, st, "alice")
	startRound(t, rounds)

	require.NoError(t, svc.Submit(ctx, testCode, "alice", "a", "Apple"))
	// Letters answers stay editable for the whole round.
	require.NoError(t, svc.Submit(ctx, testCode, "alice", "A", "Apricot"))

	answers, err := svc.Answers(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "Apricot"}, answers)
}

func TestSubmitLettersWhilePaused(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	bus := NewBus()
	rounds := NewRoundService(st, bus)
	svc := NewAnswerService(st, bus)
	addPlayer(t, st, "alice")
	startRound(t, rounds)

	_, err := rounds.Pause(ctx, testCode)
	require.NoError(t, err)

	// A paused timer does not block typing.
	require.NoError(t, svc.Submit(ctx, testCode, "alice", "B", "Banana"))
}

func TestSubmitLettersSlotValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	bus := NewBus()
	rounds := NewRoundService(st, bus)
	svc := NewAnswerService(st, bus)
	addPlayer(t, st, "alice")
	startRound(t, rounds)

	for _, slot := range []string{"", "AB", "1", "!"} {
		err := svc.Submit(ctx, testCode, "alice", slot, "Apple")
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr, "slot %q", slot)
	}
}

func TestSubmitQuizLocksOnSubmit(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	bus := NewBus()
	rounds := NewRoundService(st, bus)
	svc := NewAnswerService(st, bus)
	addPlayer(t, st, "alice")
	startRound(t, rounds)

	require.NoError(t, svc.Submit(ctx, testCode, "alice", "0", "Paris"))

	err := svc.Submit(ctx, testCode, "alice", "0", "London")
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	answers, err := svc.Answers(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answers["0"], "first answer stands")
}

func TestSubmitQuizWrongQuestionRejected(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	bus := NewBus()
	rounds := NewRoundService(st, bus)
	svc := NewAnswerService(st, bus)
	addPlayer(t, st, "alice")
	startRound(t, rounds)

	for _, slot := range []string{"1", "x", "-1"} {
		err := svc.Submit(ctx, testCode, "alice", slot, "Paris")
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr, "slot %q", slot)
	}
}

func TestAnswersDropsBlankEntries(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewAnswerService(st, NewBus())
	addPlayer(t, st, "alice")
	require.NoError(t, st.PutAnswer(ctx, testCode, "alice", "A", "Apple"))
	require.NoError(t, st.PutAnswer(ctx, testCode, "alice", "B", "   "))

	answers, err := svc.Answers(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "Apple"}, answers)
}

func TestSubmitWagerBounds(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewAnswerService(st, NewBus())
	addPlayer(t, st, "alice")
	require.NoError(t, st.AddScore(ctx, testCode, "alice", 300))

	// A wager above the current score is rejected no matter what the client
	// allowed.
	err := svc.SubmitWager(ctx, testCode, "alice", 500)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = svc.SubmitWager(ctx, testCode, "alice", -1)
	require.ErrorAs(t, err, &validationErr)

	require.NoError(t, svc.SubmitWager(ctx, testCode, "alice", 300))

	alice, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 300, alice.Wager)
}
