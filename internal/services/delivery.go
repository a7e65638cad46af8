package services

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/models"

	"go.uber.org/zap"
)

// DeliveryService serves exactly one question at a time to a session.
// Timing is client-driven: the caller counts down TimePerQuestion from
// the moment the question is returned and resolves expiry with a normal
// automatic submission. There is no server-side timer.
type DeliveryService struct {
	log      *zap.Logger
	tests    TestStore
	sessions SessionStore
}

func NewDeliveryService(log *zap.Logger, tests TestStore, sessions SessionStore) *DeliveryService {
	return &DeliveryService{log: log, tests: tests, sessions: sessions}
}

type QuestionPayload struct {
	Question        models.QuestionContext `json:"question"`
	Options         []models.FixedOption   `json:"options"`
	Index           int                    `json:"index"`
	TotalQuestions  int                    `json:"totalQuestions"`
	TimePerQuestion int                    `json:"timePerQuestion"`
}

// FetchResult is either a question or the terminal completion signal;
// Completed=true is a success variant, not an error.
type FetchResult struct {
	Completed bool             `json:"completed"`
	Question  *QuestionPayload `json:"question,omitempty"`
}

// FetchQuestion returns the question at the 0-based index and records
// the looked-at position. Repeated calls with the same index are
// idempotent while the session is in progress.
func (s *DeliveryService) FetchQuestion(ctx context.Context, testID, participantID uint, index int) (*FetchResult, error) {
	if index < 0 {
		return nil, apperr.New(apperr.KindValidation, "question index must not be negative")
	}

	session, err := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "no session for this test and participant")
	}

	// Past the last question the flow is over regardless of how the
	// session got there; a completed session asked for its "next"
	// question gets the completion signal, not an error.
	if index >= session.TotalQuestions {
		return &FetchResult{Completed: true}, nil
	}
	if session.IsTerminal() {
		return nil, apperr.Newf(apperr.KindConflict, "session is already %s", session.Status)
	}

	test, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, apperr.New(apperr.KindNotFound, "test not found")
	}

	qc, err := s.tests.GetQuestionContext(ctx, testID, index+1)
	if err != nil {
		return nil, err
	}
	if qc == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "question %d not found", index+1)
	}

	// Record "looked at" so a reconnecting client can resume here. The
	// store keeps the order monotonic, so refetching an earlier index
	// never moves the position backwards.
	if err := s.sessions.UpdatePosition(ctx, session.ID, index+1); err != nil {
		return nil, err
	}

	return &FetchResult{
		Question: &QuestionPayload{
			Question:        *qc,
			Options:         models.FixedOptions(),
			Index:           index,
			TotalQuestions:  session.TotalQuestions,
			TimePerQuestion: test.TimePerQuestion,
		},
	}, nil
}
