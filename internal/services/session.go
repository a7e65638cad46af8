package services

import (
	"context"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/config"
	"github.com/Harshad932/Infinova-sub000/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService owns the participant session lifecycle: creation,
// resume, heartbeat and the explicit abandon transition.
type SessionService struct {
	log      *zap.Logger
	tests    TestStore
	sessions SessionStore
	cfg      config.SessionConfig
}

func NewSessionService(log *zap.Logger, tests TestStore, sessions SessionStore, cfg config.SessionConfig) *SessionService {
	return &SessionService{log: log, tests: tests, sessions: sessions, cfg: cfg}
}

type StartResult struct {
	SessionID         uint   `json:"sessionId"`
	Token             string `json:"token"`
	Resumed           bool   `json:"resumed"`
	CurrentIndex      int    `json:"currentIndex"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	TotalQuestions    int    `json:"totalQuestions"`
	TimePerQuestion   int    `json:"timePerQuestion"`
	HeartbeatInterval int    `json:"heartbeatIntervalSeconds"`
}

// Start creates the session for (test, participant), or resumes the
// existing in-progress one. Two concurrent starts race on the unique
// index; the loser re-reads the winner's row, so exactly one session
// ever exists for the pair.
func (s *SessionService) Start(ctx context.Context, testID, participantID uint) (*StartResult, error) {
	test, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, apperr.New(apperr.KindNotFound, "test not found")
	}
	if test.Status != models.TestActive {
		return nil, apperr.New(apperr.KindPrecondition, "test is not active")
	}

	existing, err := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.resolveExisting(existing, test)
	}

	now := time.Now()
	session := &models.Session{
		Token:                uuid.NewString(),
		TestID:               testID,
		ParticipantID:        participantID,
		Status:               models.SessionInProgress,
		CurrentQuestionOrder: 1,
		TotalQuestions:       test.TotalQuestions,
		StartedAt:            now,
		LastSeenAt:           now,
	}
	err = s.sessions.Create(ctx, session)
	if apperr.IsKind(err, apperr.KindConflict) {
		// Lost the race; the concurrent caller's session wins.
		winner, gerr := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
		if gerr != nil {
			return nil, gerr
		}
		if winner == nil {
			return nil, err
		}
		return s.resolveExisting(winner, test)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Session started",
		zap.Uint("sessionID", session.ID),
		zap.Uint("testID", testID),
		zap.Uint("participantID", participantID),
	)
	return s.startResult(session, test, false), nil
}

func (s *SessionService) resolveExisting(session *models.Session, test *models.Test) (*StartResult, error) {
	switch session.Status {
	case models.SessionInProgress:
		return s.startResult(session, test, true), nil
	case models.SessionCompleted:
		return nil, apperr.New(apperr.KindConflict, "test already completed")
	default:
		return nil, apperr.Newf(apperr.KindConflict, "session was %s", session.Status)
	}
}

func (s *SessionService) startResult(session *models.Session, test *models.Test, resumed bool) *StartResult {
	return &StartResult{
		SessionID:         session.ID,
		Token:             session.Token,
		Resumed:           resumed,
		CurrentIndex:      session.CurrentQuestionOrder - 1,
		QuestionsAnswered: session.QuestionsAnswered,
		TotalQuestions:    session.TotalQuestions,
		TimePerQuestion:   test.TimePerQuestion,
		HeartbeatInterval: s.cfg.HeartbeatIntervalSeconds,
	}
}

// Heartbeat refreshes the liveness timestamp. It is best-effort only; a
// missing heartbeat never abandons a session by itself.
func (s *SessionService) Heartbeat(ctx context.Context, testID, participantID uint) error {
	session, err := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.New(apperr.KindNotFound, "no session for this test and participant")
	}
	if session.IsTerminal() {
		return apperr.Newf(apperr.KindConflict, "session is already %s", session.Status)
	}
	return s.sessions.Heartbeat(ctx, session.ID, time.Now())
}

// Abandon is the participant's explicit exit before completion.
func (s *SessionService) Abandon(ctx context.Context, testID, participantID uint) error {
	session, err := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.New(apperr.KindNotFound, "no session for this test and participant")
	}
	next, err := models.NextSessionStatus(session.Status, models.SessionEventAbandon)
	if err != nil {
		return err
	}
	if err := s.sessions.SetStatus(ctx, session.ID, next, nil); err != nil {
		return err
	}
	s.log.Info("Session abandoned", zap.Uint("sessionID", session.ID))
	return nil
}
