package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"partygames/models"
)

// Memory is an in-process Store for tests and single-node development. All
// methods copy on the way in and out so callers never share state with the
// store.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	admins   map[string]models.Admin
	nextID   uint
}

type memorySession struct {
	session models.Session
	players map[string]*models.Player
	answers map[string]map[string]string // player key -> slot -> text
	round   models.RoundState
	haveRnd bool
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*memorySession),
		admins:   make(map[string]models.Admin),
	}
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *Memory) session(code string) (*memorySession, error) {
	s, ok := m.sessions[normalizeCode(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Memory) CreateSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := normalizeCode(session.Code)
	if _, exists := m.sessions[code]; exists {
		return ErrConflict
	}
	session.ID = m.id()
	session.Code = code
	session.CreatedAt = time.Now()
	m.sessions[code] = &memorySession{
		session: *session,
		players: make(map[string]*models.Player),
		answers: make(map[string]map[string]string),
	}
	return nil
}

func (m *Memory) Session(_ context.Context, code string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return nil, err
	}
	out := s.session
	return &out, nil
}

func (m *Memory) UpsertPlayer(_ context.Context, code string, player *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	if existing, ok := s.players[player.Key]; ok {
		existing.Name = player.Name
		if player.Order != 0 {
			existing.Order = player.Order
		}
		*player = *existing
		return nil
	}
	p := *player
	p.ID = m.id()
	p.SessionID = s.session.ID
	p.JoinedAt = time.Now()
	p.CreatedAt = p.JoinedAt
	s.players[p.Key] = &p
	*player = p
	return nil
}

func (m *Memory) Player(_ context.Context, code, key string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return nil, err
	}
	p, ok := s.players[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	out.Answers = copyAnswers(s.answers[key])
	out.LetterScores = copyScores(p.LetterScores)
	return &out, nil
}

func (m *Memory) Players(_ context.Context, code string) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return nil, err
	}
	players := make([]models.Player, 0, len(s.players))
	for key, p := range s.players {
		out := *p
		out.Answers = copyAnswers(s.answers[key])
		out.LetterScores = copyScores(p.LetterScores)
		players = append(players, out)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Order != players[j].Order {
			return players[i].Order < players[j].Order
		}
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].Key < players[j].Key
	})
	return players, nil
}

func (m *Memory) DeletePlayers(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	s.players = make(map[string]*models.Player)
	s.answers = make(map[string]map[string]string)
	return nil
}

func (m *Memory) ResetPlayers(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	for _, p := range s.players {
		p.Score = 0
		p.Wager = 0
		p.LetterScores = nil
	}
	return nil
}

func (m *Memory) PutAnswer(_ context.Context, code, key, slot, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	if _, ok := s.players[key]; !ok {
		return ErrNotFound
	}
	if s.answers[key] == nil {
		s.answers[key] = make(map[string]string)
	}
	s.answers[key][slot] = text
	return nil
}

func (m *Memory) Answers(_ context.Context, code, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return nil, err
	}
	return copyAnswers(s.answers[key]), nil
}

func (m *Memory) ClearAnswers(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	s.answers = make(map[string]map[string]string)
	return nil
}

func (m *Memory) SetWager(_ context.Context, code, key string, wager int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	p, ok := s.players[key]
	if !ok {
		return ErrNotFound
	}
	p.Wager = wager
	return nil
}

func (m *Memory) AddScore(_ context.Context, code, key string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	p, ok := s.players[key]
	if !ok {
		return ErrNotFound
	}
	p.Score += delta
	return nil
}

func (m *Memory) SetLetterScores(_ context.Context, code, key string, scores map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	p, ok := s.players[key]
	if !ok {
		return ErrNotFound
	}
	p.LetterScores = copyScores(scores)
	return nil
}

func (m *Memory) Round(_ context.Context, code string) (models.RoundState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return models.RoundState{}, err
	}
	if !s.haveRnd {
		return models.NewRoundState(), nil
	}
	return s.round, nil
}

func (m *Memory) SaveRound(_ context.Context, code string, round models.RoundState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.session(code)
	if err != nil {
		return err
	}
	s.round = round
	s.haveRnd = true
	return nil
}

func (m *Memory) CreateAdmin(_ context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if _, exists := m.admins[email]; exists {
		return ErrConflict
	}
	admin.ID = m.id()
	admin.Email = email
	admin.CreatedAt = time.Now()
	m.admins[email] = *admin
	return nil
}

func (m *Memory) AdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	out := a
	return &out, nil
}

func copyAnswers(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyScores(in map[string]bool) map[string]bool {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ Store = (*Memory)(nil)
