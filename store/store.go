package store

import (
	"context"
	"errors"

	"partygames/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// ErrUnavailable wraps transient backend failures. Callers keep their
	// last known good state and retry; nothing is assumed committed.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the shared document store the game core runs against. The
// production implementation keeps players and answers in Postgres and the
// round document in Redis; the in-memory implementation backs the tests.
//
// Correctness requirements for implementations: AddScore is an additive
// increment (never a read-modify-write of the full record), PutAnswer writes
// a single slot without touching the player's other slots, and ClearAnswers
// wipes the whole session in one batch so observers never see a partially
// cleared roster.
type Store interface {
	CreateSession(ctx context.Context, session *models.Session) error
	Session(ctx context.Context, code string) (*models.Session, error)

	// UpsertPlayer creates the player or merges into the existing record
	// with the same key: the display name is refreshed, and Order is taken
	// when non-zero. Score and answers are never touched.
	UpsertPlayer(ctx context.Context, code string, player *models.Player) error
	Player(ctx context.Context, code, key string) (*models.Player, error)
	// Players returns the roster with answers attached, ordered by the
	// assigned order field and then by sign-up time.
	Players(ctx context.Context, code string) ([]models.Player, error)
	DeletePlayers(ctx context.Context, code string) error
	// ResetPlayers zeroes every player's score, wager and letter scores.
	ResetPlayers(ctx context.Context, code string) error

	PutAnswer(ctx context.Context, code, key, slot, text string) error
	Answers(ctx context.Context, code, key string) (map[string]string, error)
	ClearAnswers(ctx context.Context, code string) error
	SetWager(ctx context.Context, code, key string, wager int) error
	AddScore(ctx context.Context, code, key string, delta int) error
	SetLetterScores(ctx context.Context, code, key string, scores map[string]bool) error

	// Round returns the session's round document, or the idle default when
	// none has been written yet.
	Round(ctx context.Context, code string) (models.RoundState, error)
	SaveRound(ctx context.Context, code string, round models.RoundState) error

	CreateAdmin(ctx context.Context, admin *models.Admin) error
	AdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}
