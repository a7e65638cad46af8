package repository

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/scoring"

	"gorm.io/gorm"
)

// ResultsRepo reads the joined question/category shape the scoring
// calculator consumes. Category and subcategory rows may have been
// deleted after sessions completed; the LEFT JOIN + COALESCE keeps the
// read working with display fallbacks instead of failing.
type ResultsRepo struct {
	db *gorm.DB
}

func NewResultsRepo(db *gorm.DB) *ResultsRepo {
	return &ResultsRepo{db: db}
}

func (r *ResultsRepo) ListQuestionInfo(ctx context.Context, testID uint) ([]scoring.QuestionInfo, error) {
	var rows []scoring.QuestionInfo
	err := r.db.WithContext(ctx).Raw(`
		SELECT q.id,
		       q.category_id,
		       q.subcategory_id,
		       COALESCE(c.name, 'Unknown category') AS category_name,
		       COALESCE(s.name, 'Unknown subcategory') AS subcategory_name
		FROM questions q
		LEFT JOIN categories c ON c.id = q.category_id
		LEFT JOIN subcategories s ON s.id = q.subcategory_id
		WHERE q.test_id = ?
		ORDER BY q.question_order`, testID).
		Scan(&rows).Error
	return rows, err
}
