package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/models"

	"gorm.io/gorm"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts the session. The unique index on (test_id,
// participant_id) turns a concurrent duplicate start into a conflict,
// which callers resolve by re-reading the winner's row.
func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.KindConflict, "session already exists for this test and participant")
	}
	return err
}

func (r *SessionRepo) GetByTestAndParticipant(ctx context.Context, testID, participantID uint) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		First(&s, "test_id = ? AND participant_id = ?", testID, participantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdatePosition records the looked-at question order. The guard keeps
// current_question_order monotonically non-decreasing even if a client
// refetches an earlier index.
func (r *SessionRepo) UpdatePosition(ctx context.Context, sessionID uint, order int) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND current_question_order < ?", sessionID, order).
		Update("current_question_order", order).Error
}

func (r *SessionRepo) UpdateProgress(ctx context.Context, sessionID uint, order, answered int) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"current_question_order": order,
			"questions_answered":     answered,
		}).Error
}

func (r *SessionRepo) SetStatus(ctx context.Context, sessionID uint, status models.SessionStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Updates(updates).Error
}

func (r *SessionRepo) Heartbeat(ctx context.Context, sessionID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("last_seen_at", at).Error
}

func (r *SessionRepo) ListCompletedByTest(ctx context.Context, testID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND status = ?", testID, models.SessionCompleted).
		Order("completed_at ASC").
		Find(&sessions).Error
	return sessions, err
}
