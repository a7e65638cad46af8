package repository

import (
	"context"
	"errors"

	"github.com/Harshad932/Infinova-sub000/internal/models"

	"gorm.io/gorm"
)

// TestRepo persists tests and their authored question graph.
// Lookup methods return (nil, nil) when the row does not exist; only
// infrastructure failures come back as errors.
type TestRepo struct {
	db *gorm.DB
}

func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

func (r *TestRepo) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	err := r.db.WithContext(ctx).First(&test, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepo) GetTestByCode(ctx context.Context, code string) (*models.Test, error) {
	var test models.Test
	err := r.db.WithContext(ctx).First(&test, "join_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepo) UpdateTestStatus(ctx context.Context, id uint, status models.TestStatus) error {
	return r.db.WithContext(ctx).Model(&models.Test{}).Where("id = ?", id).
		Update("status", status).Error
}

// SetStatusAndJoinCode updates both in one statement; code may be nil to
// clear it (unpublish drops the code along with the published state).
func (r *TestRepo) SetStatusAndJoinCode(ctx context.Context, id uint, status models.TestStatus, code *string) error {
	return r.db.WithContext(ctx).Model(&models.Test{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "join_code": code}).Error
}

func (r *TestRepo) SetJoinCode(ctx context.Context, id uint, code string) error {
	return r.db.WithContext(ctx).Model(&models.Test{}).Where("id = ?", id).
		Update("join_code", code).Error
}

func (r *TestRepo) CountQuestions(ctx context.Context, testID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("test_id = ?", testID).Count(&count).Error
	return int(count), err
}

func (r *TestRepo) GetQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetQuestionContext loads one question by order together with its
// category/subcategory names, with display fallbacks for dangling refs.
func (r *TestRepo) GetQuestionContext(ctx context.Context, testID uint, order int) (*models.QuestionContext, error) {
	var qc models.QuestionContext
	res := r.db.WithContext(ctx).Raw(`
		SELECT q.id AS question_id,
		       q.text,
		       q.question_order,
		       q.subcategory_order,
		       COALESCE(c.name, 'Unknown category') AS category_name,
		       COALESCE(s.name, 'Unknown subcategory') AS subcategory_name
		FROM questions q
		LEFT JOIN categories c ON c.id = q.category_id
		LEFT JOIN subcategories s ON s.id = q.subcategory_id
		WHERE q.test_id = ? AND q.question_order = ?`, testID, order).
		Scan(&qc)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &qc, nil
}

// CreateTestGraph creates a test with all its categories, subcategories
// and questions in one transaction. QuestionOrder is assigned densely in
// definition order; SubcategoryOrder restarts per subcategory.
func (r *TestRepo) CreateTestGraph(ctx context.Context, def *models.TestDefinition) (*models.Test, error) {
	test := &models.Test{
		Title:            def.Title,
		Description:      def.Description,
		TimePerQuestion:  def.TimePerQuestion,
		TotalQuestions:   def.TotalQuestions(),
		Status:           models.TestDraft,
		RegistrationOpen: true,
	}
	if def.RegistrationOpen != nil {
		test.RegistrationOpen = *def.RegistrationOpen
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		questionOrder := 0
		for ci, catDef := range def.Categories {
			cat := models.Category{
				TestID:       test.ID,
				Name:         catDef.Name,
				Description:  catDef.Description,
				DisplayOrder: ci + 1,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			for si, subDef := range catDef.Subcategories {
				sub := models.Subcategory{
					TestID:       test.ID,
					CategoryID:   cat.ID,
					Name:         subDef.Name,
					Description:  subDef.Description,
					DisplayOrder: si + 1,
				}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}
				for qi, text := range subDef.Questions {
					questionOrder++
					q := models.Question{
						TestID:           test.ID,
						CategoryID:       cat.ID,
						SubcategoryID:    sub.ID,
						Text:             text,
						QuestionOrder:    questionOrder,
						SubcategoryOrder: qi + 1,
					}
					if err := tx.Create(&q).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return test, nil
}

// EndTestAndTerminateSessions flips the test to completed and terminates
// every in-progress session for it in the same transaction. Both changes
// land together or not at all.
func (r *TestRepo) EndTestAndTerminateSessions(ctx context.Context, testID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Test{}).Where("id = ?", testID).
			Update("status", models.TestCompleted).Error; err != nil {
			return err
		}
		return tx.Model(&models.Session{}).
			Where("test_id = ? AND status = ?", testID, models.SessionInProgress).
			Update("status", models.SessionTerminated).Error
	})
}
