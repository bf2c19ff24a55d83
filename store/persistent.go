package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"partygames/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const roundTTL = 2 * time.Hour

// Persistent keeps sessions, players and answers in Postgres and the round
// document in Redis, mirroring the split between durable roster data and the
// frequently rewritten round state.
type Persistent struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewPersistent(db *gorm.DB, redisClient *redis.Client) *Persistent {
	return &Persistent{db: db, redis: redisClient}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (s *Persistent) sessionID(ctx context.Context, code string) (uint, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&session).Error
	if err != nil {
		return 0, wrap(err)
	}
	return session.ID, nil
}

func (s *Persistent) CreateSession(ctx context.Context, session *models.Session) error {
	session.Code = strings.ToLower(session.Code)
	return wrap(s.db.WithContext(ctx).Create(session).Error)
}

func (s *Persistent) Session(ctx context.Context, code string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&session).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &session, nil
}

func (s *Persistent) UpsertPlayer(ctx context.Context, code string, player *models.Player) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	player.SessionID = sessionID
	if player.JoinedAt.IsZero() {
		player.JoinedAt = time.Now()
	}

	updates := []string{"name"}
	if player.Order != 0 {
		updates = append(updates, "order")
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(player).Error
	if err != nil {
		return wrap(err)
	}

	// Re-read so the caller sees the merged record, not the insert attempt.
	var merged models.Player
	err = s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, player.Key).
		First(&merged).Error
	if err != nil {
		return wrap(err)
	}
	*player = merged
	return nil
}

func (s *Persistent) Player(ctx context.Context, code, key string) (*models.Player, error) {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return nil, err
	}
	var player models.Player
	err = s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&player).Error
	if err != nil {
		return nil, wrap(err)
	}
	answers, err := s.answersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	player.Answers = answers[key]
	return &player, nil
}

func (s *Persistent) Players(ctx context.Context, code string) ([]models.Player, error) {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return nil, err
	}
	var players []models.Player
	err = s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("joined_at").
		Find(&players).Error
	if err != nil {
		return nil, wrap(err)
	}
	answers, err := s.answersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range players {
		players[i].Answers = answers[players[i].Key]
	}
	return players, nil
}

func (s *Persistent) answersBySession(ctx context.Context, sessionID uint) (map[string]map[string]string, error) {
	var rows []models.Answer
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	out := make(map[string]map[string]string)
	for _, row := range rows {
		if out[row.PlayerKey] == nil {
			out[row.PlayerKey] = make(map[string]string)
		}
		out[row.PlayerKey][row.Slot] = row.Text
	}
	return out, nil
}

func (s *Persistent) DeletePlayers(ctx context.Context, code string) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Answer{}).Error; err != nil {
		return wrap(err)
	}
	return wrap(s.db.WithContext(ctx).
		Unscoped().
		Where("session_id = ?", sessionID).
		Delete(&models.Player{}).Error)
}

func (s *Persistent) ResetPlayers(ctx context.Context, code string) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	return wrap(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"score":         0,
			"wager":         0,
			"letter_scores": nil,
		}).Error)
}

func (s *Persistent) PutAnswer(ctx context.Context, code, key, slot, text string) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	answer := models.Answer{
		SessionID: sessionID,
		PlayerKey: key,
		Slot:      slot,
		Text:      text,
	}
	// One row per slot: a player's concurrent writes to different slots
	// never go through a shared answer map.
	return wrap(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "player_key"}, {Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"text"}),
	}).Create(&answer).Error)
}

func (s *Persistent) Answers(ctx context.Context, code, key string) (map[string]string, error) {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return nil, err
	}
	var rows []models.Answer
	err = s.db.WithContext(ctx).
		Where("session_id = ? AND player_key = ?", sessionID, key).
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Slot] = row.Text
	}
	return out, nil
}

func (s *Persistent) ClearAnswers(ctx context.Context, code string) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	// Single statement, so observers never see a half-cleared roster.
	return wrap(s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Answer{}).Error)
}

func (s *Persistent) SetWager(ctx context.Context, code, key string, wager int) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	return wrap(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("session_id = ? AND key = ?", sessionID, key).
		Update("wager", wager).Error)
}

func (s *Persistent) AddScore(ctx context.Context, code, key string, delta int) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	return wrap(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("session_id = ? AND key = ?", sessionID, key).
		Update("score", gorm.Expr("score + ?", delta)).Error)
}

func (s *Persistent) SetLetterScores(ctx context.Context, code, key string, scores map[string]bool) error {
	sessionID, err := s.sessionID(ctx, code)
	if err != nil {
		return err
	}
	return wrap(s.db.WithContext(ctx).Model(&models.Player{}).
		Where("session_id = ? AND key = ?", sessionID, key).
		Update("letter_scores", scores).Error)
}

func roundKey(code string) string {
	return "round:" + strings.ToLower(code)
}

func (s *Persistent) Round(ctx context.Context, code string) (models.RoundState, error) {
	data, err := s.redis.Get(ctx, roundKey(code)).Result()
	if err == redis.Nil {
		return models.NewRoundState(), nil
	}
	if err != nil {
		return models.RoundState{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var round models.RoundState
	if err := json.Unmarshal([]byte(data), &round); err != nil {
		return models.RoundState{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return round, nil
}

func (s *Persistent) SaveRound(ctx context.Context, code string, round models.RoundState) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := s.redis.Set(ctx, roundKey(code), data, roundTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Persistent) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return wrap(s.db.WithContext(ctx).Create(admin).Error)
}

func (s *Persistent) AdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &admin, nil
}

var _ Store = (*Persistent)(nil)
