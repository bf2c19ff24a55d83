package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"partygames/models"
	"partygames/store"
)

type SessionService struct {
	store store.Store
}

func NewSessionService(st store.Store) *SessionService {
	return &SessionService{store: st}
}

// Create opens a new game session for the given variant and returns it with
// its join code.
func (s *SessionService) Create(ctx context.Context, variant string) (*models.Session, error) {
	if variant != models.VariantQuiz && variant != models.VariantLetters {
		return nil, models.NewValidationError("unknown game variant %q", variant)
	}

	session := &models.Session{
		Code:    generateCode(),
		Variant: variant,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, code string) (*models.Session, error) {
	return s.store.Session(ctx, code)
}

func generateCode() string {
	bytes := make([]byte, 3)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:6]
}
