package repository

import (
	"context"
	"errors"

	"github.com/Harshad932/Infinova-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepo struct {
	db *gorm.DB
}

func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

func (r *ParticipantRepo) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepo) FindByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).First(&p, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepo) FindByID(ctx context.Context, id uint) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save inserts the participant, or on an email collision overwrites name
// and phone in place (re-registration with the same email updates the
// record).
func (r *ParticipantRepo) Save(ctx context.Context, p *models.Participant) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "updated_at"}),
	}).Create(p).Error
}

// EnsureRegistration creates the registration for (test, participant) if
// it does not exist yet; re-registering is a no-op.
func (r *ParticipantRepo) EnsureRegistration(ctx context.Context, testID, participantID uint) error {
	reg := models.Registration{
		TestID:        testID,
		ParticipantID: participantID,
		Status:        models.RegistrationRegistered,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "test_id"}, {Name: "participant_id"}},
		DoNothing: true,
	}).Create(&reg).Error
}

func (r *ParticipantRepo) GetRegistration(ctx context.Context, testID, participantID uint) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		First(&reg, "test_id = ? AND participant_id = ?", testID, participantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
