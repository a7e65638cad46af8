package models

import (
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
)

// SessionStatus is the lifecycle state of one participant's attempt.
// Every state except in_progress is terminal.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
	SessionTerminated SessionStatus = "terminated"
)

type SessionEvent string

const (
	SessionEventComplete  SessionEvent = "complete"
	SessionEventAbandon   SessionEvent = "abandon"
	SessionEventTerminate SessionEvent = "terminate"
)

// Session is one participant's single attempt at one test. The
// (TestID, ParticipantID) pair is unique for all time; the index is
// created in database.Init because AutoMigrate does not handle
// composite unique indexes.
type Session struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Token         string        `gorm:"not null" json:"token"`
	TestID        uint          `gorm:"not null" json:"testId"`
	ParticipantID uint          `gorm:"not null" json:"participantId"`
	Status        SessionStatus `gorm:"not null;default:'in_progress';index" json:"status"`
	// CurrentQuestionOrder is 1-based and monotonically non-decreasing;
	// it never exceeds TotalQuestions+1.
	CurrentQuestionOrder int `gorm:"not null;default:1" json:"currentQuestionOrder"`
	QuestionsAnswered    int `gorm:"not null;default:0" json:"questionsAnswered"`
	// TotalQuestions is snapshotted from the test at start so later
	// authoring edits cannot move a running session's finish line.
	TotalQuestions int        `gorm:"not null" json:"totalQuestions"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	LastSeenAt     time.Time  `json:"lastSeenAt"`
}

type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionID      uint      `gorm:"not null" json:"sessionId"`
	QuestionID     uint      `gorm:"not null" json:"questionId"`
	SelectedOption string    `gorm:"not null" json:"selectedOption"`
	MarksObtained  int       `gorm:"not null" json:"marksObtained"`
	TimeTaken      int       `gorm:"not null" json:"timeTaken"`
	IsAutomatic    bool      `gorm:"not null;default:false" json:"isAutomatic"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// NextSessionStatus applies an event to the session state machine.
// Terminal states never transition again.
func NextSessionStatus(cur SessionStatus, event SessionEvent) (SessionStatus, error) {
	if cur != SessionInProgress {
		switch event {
		case SessionEventComplete, SessionEventAbandon, SessionEventTerminate:
			return cur, apperr.Newf(apperr.KindConflict, "session is already %s", cur)
		}
	}
	switch event {
	case SessionEventComplete:
		return SessionCompleted, nil
	case SessionEventAbandon:
		return SessionAbandoned, nil
	case SessionEventTerminate:
		return SessionTerminated, nil
	}
	return cur, apperr.Newf(apperr.KindValidation, "unknown session event %q", event)
}

func (s *Session) IsTerminal() bool {
	return s.Status != SessionInProgress
}
