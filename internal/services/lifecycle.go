package services

import (
	"context"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/config"
	"github.com/Harshad932/Infinova-sub000/internal/models"
	"github.com/Harshad932/Infinova-sub000/internal/utils"

	"go.uber.org/zap"
)

// LifecycleService drives the admin-facing test state machine:
// draft -> published -> active -> completed.
type LifecycleService struct {
	log   *zap.Logger
	tests TestStore
	cfg   config.JoinCodeConfig
}

func NewLifecycleService(log *zap.Logger, tests TestStore, cfg config.JoinCodeConfig) *LifecycleService {
	return &LifecycleService{log: log, tests: tests, cfg: cfg}
}

func (s *LifecycleService) getTest(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.tests.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, apperr.New(apperr.KindNotFound, "test not found")
	}
	return test, nil
}

// ImportDefinition creates a draft test with its full category/
// subcategory/question graph in one transaction.
func (s *LifecycleService) ImportDefinition(ctx context.Context, raw []byte) (*models.Test, error) {
	def, err := models.ParseTestDefinition(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid test definition", err)
	}
	test, err := s.tests.CreateTestGraph(ctx, def)
	if err != nil {
		return nil, err
	}
	s.log.Info("Test imported",
		zap.Uint("testID", test.ID),
		zap.String("title", test.Title),
		zap.Int("questions", test.TotalQuestions),
	)
	return test, nil
}

// Publish moves draft -> published. A test with zero questions cannot be
// published.
func (s *LifecycleService) Publish(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	next, err := models.NextTestStatus(test.Status, models.TestEventPublish)
	if err != nil {
		return nil, err
	}
	count, err := s.tests.CountQuestions(ctx, testID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.New(apperr.KindValidation, "test has no questions")
	}
	if err := s.tests.UpdateTestStatus(ctx, testID, next); err != nil {
		return nil, err
	}
	test.Status = next
	s.log.Info("Test published", zap.Uint("testID", testID))
	return test, nil
}

// Unpublish moves published -> draft and drops the join code so the
// published-implies-code invariant keeps holding.
func (s *LifecycleService) Unpublish(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	next, err := models.NextTestStatus(test.Status, models.TestEventUnpublish)
	if err != nil {
		return nil, err
	}
	if err := s.tests.SetStatusAndJoinCode(ctx, testID, next, nil); err != nil {
		return nil, err
	}
	test.Status = next
	test.JoinCode = nil
	s.log.Info("Test unpublished", zap.Uint("testID", testID))
	return test, nil
}

// GenerateCode assigns a unique random join code to a published test,
// retrying on collision up to the configured attempt budget.
func (s *LifecycleService) GenerateCode(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test.Status != models.TestPublished {
		return nil, apperr.New(apperr.KindConflict, "test is not published")
	}
	if test.JoinCode != nil {
		return nil, apperr.New(apperr.KindConflict, "join code already exists")
	}
	for attempt := 0; attempt < s.cfg.MaxGenerateAttempts; attempt++ {
		code, err := utils.GenerateJoinCode(s.cfg.Length)
		if err != nil {
			return nil, err
		}
		existing, err := s.tests.GetTestByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.log.Debug("Join code collision, retrying", zap.Uint("testID", testID))
			continue
		}
		if err := s.tests.SetJoinCode(ctx, testID, code); err != nil {
			return nil, err
		}
		test.JoinCode = &code
		s.log.Info("Join code generated", zap.Uint("testID", testID))
		return test, nil
	}
	return nil, apperr.New(apperr.KindExhausted, "could not generate a unique join code")
}

// Activate moves published -> active; a join code must already exist.
func (s *LifecycleService) Activate(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	next, err := models.NextTestStatus(test.Status, models.TestEventActivate)
	if err != nil {
		return nil, err
	}
	if test.JoinCode == nil {
		return nil, apperr.New(apperr.KindPrecondition, "test has no join code")
	}
	if err := s.tests.UpdateTestStatus(ctx, testID, next); err != nil {
		return nil, err
	}
	test.Status = next
	s.log.Info("Test activated", zap.Uint("testID", testID))
	return test, nil
}

// End moves active -> completed and terminates every in-progress session
// of the test atomically with the flag flip.
func (s *LifecycleService) End(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	next, err := models.NextTestStatus(test.Status, models.TestEventEnd)
	if err != nil {
		return nil, err
	}
	if err := s.tests.EndTestAndTerminateSessions(ctx, testID); err != nil {
		return nil, err
	}
	test.Status = next
	s.log.Info("Test ended, in-progress sessions terminated", zap.Uint("testID", testID))
	return test, nil
}
