package services

import (
	"context"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/models"
	"github.com/Harshad932/Infinova-sub000/internal/scoring"
)

// The services own the invariants; storage is consumed through these
// interfaces so the GORM repositories and the in-memory test fakes are
// interchangeable. Lookup methods return (nil, nil) for absent rows.

type TestStore interface {
	GetTest(ctx context.Context, id uint) (*models.Test, error)
	GetTestByCode(ctx context.Context, code string) (*models.Test, error)
	UpdateTestStatus(ctx context.Context, id uint, status models.TestStatus) error
	SetStatusAndJoinCode(ctx context.Context, id uint, status models.TestStatus, code *string) error
	SetJoinCode(ctx context.Context, id uint, code string) error
	CountQuestions(ctx context.Context, testID uint) (int, error)
	GetQuestionByID(ctx context.Context, id uint) (*models.Question, error)
	GetQuestionContext(ctx context.Context, testID uint, order int) (*models.QuestionContext, error)
	CreateTestGraph(ctx context.Context, def *models.TestDefinition) (*models.Test, error)
	EndTestAndTerminateSessions(ctx context.Context, testID uint) error
}

type ParticipantStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Participant, error)
	FindByPhone(ctx context.Context, phone string) (*models.Participant, error)
	FindByID(ctx context.Context, id uint) (*models.Participant, error)
	Save(ctx context.Context, p *models.Participant) error
	EnsureRegistration(ctx context.Context, testID, participantID uint) error
	GetRegistration(ctx context.Context, testID, participantID uint) (*models.Registration, error)
}

type PasscodeStore interface {
	Create(ctx context.Context, pc *models.Passcode) error
	Latest(ctx context.Context, participantID uint, email string) (*models.Passcode, error)
	LatestConsumed(ctx context.Context, participantID uint, email string) (*models.Passcode, error)
	MarkConsumed(ctx context.Context, id uint, at time.Time) error
	IncrementFailed(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByTestAndParticipant(ctx context.Context, testID, participantID uint) (*models.Session, error)
	UpdatePosition(ctx context.Context, sessionID uint, order int) error
	UpdateProgress(ctx context.Context, sessionID uint, order, answered int) error
	SetStatus(ctx context.Context, sessionID uint, status models.SessionStatus, completedAt *time.Time) error
	Heartbeat(ctx context.Context, sessionID uint, at time.Time) error
	ListCompletedByTest(ctx context.Context, testID uint) ([]models.Session, error)
}

type ResponseStore interface {
	Upsert(ctx context.Context, resp *models.Response) error
	CountForSession(ctx context.Context, sessionID uint) (int, error)
	MarksByQuestion(ctx context.Context, sessionID uint) (map[uint]int, error)
}

type ResultsStore interface {
	ListQuestionInfo(ctx context.Context, testID uint) ([]scoring.QuestionInfo, error)
}

// PasscodeSender delivers a one-time passcode out of band. Delivery is
// fire-and-forget: registration never fails because email did.
type PasscodeSender interface {
	SendPasscode(participant models.Participant, code string, validFor time.Duration)
}
