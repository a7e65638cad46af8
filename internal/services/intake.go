package services

import (
	"context"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/models"

	"go.uber.org/zap"
)

// IntakeService validates and records answers. Marks are always derived
// server-side from the fixed option table; a client-supplied mark value
// is never read, so scores cannot be tampered with from the wire.
type IntakeService struct {
	log       *zap.Logger
	tests     TestStore
	sessions  SessionStore
	responses ResponseStore
}

func NewIntakeService(log *zap.Logger, tests TestStore, sessions SessionStore, responses ResponseStore) *IntakeService {
	return &IntakeService{log: log, tests: tests, sessions: sessions, responses: responses}
}

type SubmitAnswerInput struct {
	TestID         uint
	ParticipantID  uint
	QuestionID     uint
	SelectedOption string
	TimeTaken      int
	IsAutomatic    bool
}

type SubmitAnswerResult struct {
	IsCompleted       bool `json:"isCompleted"`
	NextQuestionIndex *int `json:"nextQuestionIndex"`
	QuestionsAnswered int  `json:"questionsAnswered"`
	TotalQuestions    int  `json:"totalQuestions"`
}

// SubmitAnswer upserts the response for (session, question), advances
// the position and detects completion. Late automatic submissions are
// normal intake: any answer arriving while the session is in progress
// is valid.
func (s *IntakeService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*SubmitAnswerResult, error) {
	session, err := s.sessions.GetByTestAndParticipant(ctx, in.TestID, in.ParticipantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "no session for this test and participant")
	}
	if session.Status != models.SessionInProgress {
		return nil, apperr.Newf(apperr.KindConflict, "session is already %s", session.Status)
	}

	question, err := s.tests.GetQuestionByID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil || question.TestID != in.TestID {
		return nil, apperr.New(apperr.KindNotFound, "question does not belong to this test")
	}

	marks, ok := models.MarksForOption(in.SelectedOption)
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, "invalid option label %q", in.SelectedOption)
	}
	if in.TimeTaken < 0 {
		return nil, apperr.New(apperr.KindValidation, "time taken must not be negative")
	}

	resp := &models.Response{
		SessionID:      session.ID,
		QuestionID:     question.ID,
		SelectedOption: in.SelectedOption,
		MarksObtained:  marks,
		TimeTaken:      in.TimeTaken,
		IsAutomatic:    in.IsAutomatic,
		AnsweredAt:     time.Now(),
	}
	if err := s.responses.Upsert(ctx, resp); err != nil {
		return nil, err
	}

	// Recount rather than increment so resubmissions stay correct.
	answered, err := s.responses.CountForSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	newOrder := session.CurrentQuestionOrder + 1
	if newOrder > session.TotalQuestions+1 {
		newOrder = session.TotalQuestions + 1
	}
	if err := s.sessions.UpdateProgress(ctx, session.ID, newOrder, answered); err != nil {
		return nil, err
	}

	result := &SubmitAnswerResult{
		QuestionsAnswered: answered,
		TotalQuestions:    session.TotalQuestions,
	}

	if newOrder > session.TotalQuestions {
		next, err := models.NextSessionStatus(session.Status, models.SessionEventComplete)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		if err := s.sessions.SetStatus(ctx, session.ID, next, &now); err != nil {
			return nil, err
		}
		result.IsCompleted = true
		s.log.Info("Session completed",
			zap.Uint("sessionID", session.ID),
			zap.Int("questionsAnswered", answered),
		)
		return result, nil
	}

	nextIndex := newOrder - 1
	result.NextQuestionIndex = &nextIndex
	return result, nil
}
