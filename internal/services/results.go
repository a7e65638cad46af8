package services

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/scoring"

	"go.uber.org/zap"
)

// ResultsService computes rollups on read. Nothing is incrementally
// maintained: every read recomputes from responses, so there is no
// cached score that can drift.
type ResultsService struct {
	log       *zap.Logger
	sessions  SessionStore
	responses ResponseStore
	results   ResultsStore
}

func NewResultsService(log *zap.Logger, sessions SessionStore, responses ResponseStore, results ResultsStore) *ResultsService {
	return &ResultsService{log: log, sessions: sessions, responses: responses, results: results}
}

// SessionSummary computes the full rollup for one participant's session.
func (s *ResultsService) SessionSummary(ctx context.Context, testID, participantID uint) (*scoring.Summary, error) {
	session, err := s.sessions.GetByTestAndParticipant(ctx, testID, participantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "no session for this test and participant")
	}
	summary, err := s.summarize(ctx, testID, session.ID)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ResultsService) summarize(ctx context.Context, testID, sessionID uint) (*scoring.Summary, error) {
	questions, err := s.results.ListQuestionInfo(ctx, testID)
	if err != nil {
		return nil, err
	}
	marks, err := s.responses.MarksByQuestion(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := scoring.Rollup(questions, marks)
	return &summary, nil
}

// OverallResults is the admin view across every completed session of a
// test: one line per session plus the mean and performance distribution.
type OverallResults struct {
	TestID            uint                 `json:"testId"`
	CompletedSessions int                  `json:"completedSessions"`
	MeanPercentage    float64              `json:"meanPercentage"`
	Distribution      scoring.Distribution `json:"distribution"`
	Sessions          []SessionOverall     `json:"sessions"`
}

type SessionOverall struct {
	SessionID         uint    `json:"sessionId"`
	ParticipantID     uint    `json:"participantId"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	Percentage        float64 `json:"percentage"`
}

// Overall aggregates completed sessions only; abandoned and terminated
// attempts never enter the statistics.
func (s *ResultsService) Overall(ctx context.Context, testID uint) (*OverallResults, error) {
	sessions, err := s.sessions.ListCompletedByTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	out := &OverallResults{
		TestID:            testID,
		CompletedSessions: len(sessions),
		Sessions:          make([]SessionOverall, 0, len(sessions)),
	}
	if len(sessions) == 0 {
		return out, nil
	}

	questions, err := s.results.ListQuestionInfo(ctx, testID)
	if err != nil {
		return nil, err
	}

	overalls := make([]float64, 0, len(sessions))
	for _, session := range sessions {
		marks, err := s.responses.MarksByQuestion(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		summary := scoring.Rollup(questions, marks)
		overalls = append(overalls, summary.Overall)
		out.Sessions = append(out.Sessions, SessionOverall{
			SessionID:         session.ID,
			ParticipantID:     session.ParticipantID,
			QuestionsAnswered: session.QuestionsAnswered,
			Percentage:        summary.Overall,
		})
	}
	out.MeanPercentage = scoring.MeanOverall(overalls)
	out.Distribution = scoring.Distribute(overalls)
	return out, nil
}
