package models

import (
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
)

// TestStatus is the canonical lifecycle state of a test. It replaces the
// flattened is_published/is_active/is_test_ended flag combinations with a
// single enum so invalid combinations cannot be stored.
type TestStatus string

const (
	TestDraft     TestStatus = "draft"
	TestPublished TestStatus = "published"
	TestActive    TestStatus = "active"
	TestCompleted TestStatus = "completed"
)

// TestEvent is an admin action against the test state machine.
type TestEvent string

const (
	TestEventPublish   TestEvent = "publish"
	TestEventUnpublish TestEvent = "unpublish"
	TestEventActivate  TestEvent = "activate"
	TestEventEnd       TestEvent = "end"
)

type Test struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	TotalQuestions   int        `json:"totalQuestions"`
	TimePerQuestion  int        `gorm:"not null;default:30" json:"timePerQuestion"`
	Status           TestStatus `gorm:"not null;default:'draft';index" json:"status"`
	JoinCode         *string    `gorm:"uniqueIndex" json:"-"`
	RegistrationOpen bool       `gorm:"not null;default:true" json:"registrationOpen"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type Category struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TestID       uint   `gorm:"not null;index" json:"testId"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `gorm:"not null" json:"displayOrder"`
}

type Subcategory struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TestID       uint   `gorm:"not null;index" json:"testId"`
	CategoryID   uint   `gorm:"not null;index" json:"categoryId"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `gorm:"not null" json:"displayOrder"`
}

type Question struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TestID        uint   `gorm:"not null;index" json:"testId"`
	CategoryID    uint   `gorm:"not null;index" json:"categoryId"`
	SubcategoryID uint   `gorm:"not null;index" json:"subcategoryId"`
	Text          string `gorm:"not null" json:"text"`
	// QuestionOrder is 1..TotalQuestions, dense and unique per test.
	QuestionOrder int `gorm:"not null" json:"questionOrder"`
	// SubcategoryOrder is 1..N, dense within the owning subcategory.
	SubcategoryOrder int `gorm:"not null" json:"subcategoryOrder"`
}

// NextTestStatus applies an admin event to the test state machine and
// returns the resulting state. All legality checks live here; callers
// add event-specific preconditions (question count, join code) on top.
func NextTestStatus(cur TestStatus, event TestEvent) (TestStatus, error) {
	switch event {
	case TestEventPublish:
		switch cur {
		case TestDraft:
			return TestPublished, nil
		case TestPublished, TestActive:
			return cur, apperr.New(apperr.KindConflict, "test is already published")
		case TestCompleted:
			return cur, apperr.New(apperr.KindPrecondition, "test has ended")
		}
	case TestEventUnpublish:
		switch cur {
		case TestPublished:
			return TestDraft, nil
		case TestActive:
			return cur, apperr.New(apperr.KindConflict, "test is active and cannot be unpublished")
		case TestDraft:
			return cur, apperr.New(apperr.KindConflict, "test is not published")
		case TestCompleted:
			return cur, apperr.New(apperr.KindPrecondition, "test has ended")
		}
	case TestEventActivate:
		switch cur {
		case TestPublished:
			return TestActive, nil
		case TestActive:
			return cur, apperr.New(apperr.KindConflict, "test is already active")
		case TestDraft:
			return cur, apperr.New(apperr.KindPrecondition, "test is not published")
		case TestCompleted:
			return cur, apperr.New(apperr.KindPrecondition, "test has ended")
		}
	case TestEventEnd:
		switch cur {
		case TestActive:
			return TestCompleted, nil
		case TestCompleted:
			return cur, apperr.New(apperr.KindConflict, "test has already ended")
		default:
			return cur, apperr.New(apperr.KindPrecondition, "test is not active")
		}
	}
	return cur, apperr.Newf(apperr.KindValidation, "unknown test event %q", event)
}

// AcceptsRegistrations reports whether participants may begin the
// registration flow for this test.
func (t *Test) AcceptsRegistrations() bool {
	if !t.RegistrationOpen {
		return false
	}
	return t.Status == TestPublished || t.Status == TestActive
}
