package repository

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponseRepo struct {
	db *gorm.DB
}

func NewResponseRepo(db *gorm.DB) *ResponseRepo {
	return &ResponseRepo{db: db}
}

// Upsert writes the response for (session, question): insert on first
// submission, overwrite on resubmission of the same question.
func (r *ResponseRepo) Upsert(ctx context.Context, resp *models.Response) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"selected_option", "marks_obtained", "time_taken", "is_automatic", "answered_at",
		}),
	}).Create(resp).Error
}

// CountForSession counts answered questions. Responses are unique per
// (session, question), so a plain count is already a distinct count.
func (r *ResponseRepo) CountForSession(ctx context.Context, sessionID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Response{}).
		Where("session_id = ?", sessionID).Count(&count).Error
	return int(count), err
}

// MarksByQuestion returns questionID -> marks for one session, the
// scoring calculator's input shape.
func (r *ResponseRepo) MarksByQuestion(ctx context.Context, sessionID uint) (map[uint]int, error) {
	type row struct {
		QuestionID    uint
		MarksObtained int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Response{}).
		Select("question_id", "marks_obtained").
		Where("session_id = ?", sessionID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	marks := make(map[uint]int, len(rows))
	for _, rr := range rows {
		marks[rr.QuestionID] = rr.MarksObtained
	}
	return marks, nil
}
