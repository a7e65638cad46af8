package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/models"

	"gorm.io/gorm"
)

type PasscodeRepo struct {
	db *gorm.DB
}

func NewPasscodeRepo(db *gorm.DB) *PasscodeRepo {
	return &PasscodeRepo{db: db}
}

func (r *PasscodeRepo) Create(ctx context.Context, pc *models.Passcode) error {
	return r.db.WithContext(ctx).Create(pc).Error
}

// Latest returns the most recently issued passcode for the pair, or
// (nil, nil) if none was ever issued.
func (r *PasscodeRepo) Latest(ctx context.Context, participantID uint, email string) (*models.Passcode, error) {
	var pc models.Passcode
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND email = ?", participantID, email).
		Order("created_at DESC").
		First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

// LatestConsumed returns the most recent successfully verified passcode
// for the pair, used for the registration short-circuit window.
func (r *PasscodeRepo) LatestConsumed(ctx context.Context, participantID uint, email string) (*models.Passcode, error) {
	var pc models.Passcode
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND email = ? AND consumed_at IS NOT NULL", participantID, email).
		Order("consumed_at DESC").
		First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

// MarkConsumed stamps the passcode consumed; the WHERE guard keeps the
// operation idempotent under a double submit.
func (r *PasscodeRepo) MarkConsumed(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Passcode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at).Error
}

func (r *PasscodeRepo) IncrementFailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Passcode{}).
		Where("id = ?", id).
		Update("failed_attempts", gorm.Expr("failed_attempts + 1")).Error
}

// DeleteExpired removes unconsumed passcodes whose validity lapsed
// before cutoff. Returns the number of rows removed.
func (r *PasscodeRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("consumed_at IS NULL AND expires_at < ?", cutoff).
		Delete(&models.Passcode{})
	return res.RowsAffected, res.Error
}
