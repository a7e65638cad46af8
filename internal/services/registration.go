package services

import (
	"context"
	"strings"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/config"
	"github.com/Harshad932/Infinova-sub000/internal/models"
	"github.com/Harshad932/Infinova-sub000/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Flow steps returned to the client so it knows what to render next.
const (
	StepVerifyPasscode = "verify_passcode"
	StepVerifyJoinCode = "verify_join_code"
)

// RegistrationService turns an anonymous visitor into a verified,
// registered participant: identity capture, one-time passcode challenge,
// join-code check. Each step is resumable, keyed by (test, email).
type RegistrationService struct {
	log          *zap.Logger
	tests        TestStore
	participants ParticipantStore
	passcodes    PasscodeStore
	sessions     SessionStore
	sender       PasscodeSender
	cfg          config.PasscodeConfig
}

func NewRegistrationService(
	log *zap.Logger,
	tests TestStore,
	participants ParticipantStore,
	passcodes PasscodeStore,
	sessions SessionStore,
	sender PasscodeSender,
	cfg config.PasscodeConfig,
) *RegistrationService {
	return &RegistrationService{
		log:          log,
		tests:        tests,
		participants: participants,
		passcodes:    passcodes,
		sessions:     sessions,
		sender:       sender,
		cfg:          cfg,
	}
}

type RegisterInput struct {
	TestID uint
	Name   string
	Email  string
	Phone  string
}

type RegisterResult struct {
	ParticipantID uint   `json:"participantId"`
	NextStep      string `json:"nextStep"`
}

// Register validates identity input, upserts the participant by email,
// records the registration and issues a passcode. A participant whose
// email was verified recently skips straight to the join-code step.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	if !utils.IsValidEmail(email) {
		return nil, apperr.New(apperr.KindValidation, "invalid email address")
	}
	if !utils.IsValidPhone(phone) {
		return nil, apperr.New(apperr.KindValidation, "invalid phone number")
	}

	test, err := s.tests.GetTest(ctx, in.TestID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, apperr.New(apperr.KindNotFound, "test not found")
	}
	if test.Status == models.TestCompleted {
		return nil, apperr.New(apperr.KindPrecondition, "test has ended")
	}
	if !test.AcceptsRegistrations() {
		return nil, apperr.New(apperr.KindPrecondition, "test is not accepting registrations")
	}

	// Cross-identity collision: updating your own record is fine, but a
	// phone that already belongs to a different email's account is not.
	byEmail, err := s.participants.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	byPhone, err := s.participants.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if byPhone != nil && (byEmail == nil || byPhone.ID != byEmail.ID) {
		return nil, apperr.New(apperr.KindConflict, "phone number is already registered to another participant")
	}

	participant := byEmail
	if participant == nil {
		participant = &models.Participant{Email: email}
	}
	participant.Name = name
	participant.Phone = phone
	if err := s.participants.Save(ctx, participant); err != nil {
		return nil, err
	}

	existing, err := s.sessions.GetByTestAndParticipant(ctx, in.TestID, participant.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.SessionCompleted:
			return nil, apperr.New(apperr.KindConflict, "test already completed")
		case models.SessionInProgress:
			return nil, apperr.New(apperr.KindConflict, "test already started")
		}
	}

	if err := s.participants.EnsureRegistration(ctx, in.TestID, participant.ID); err != nil {
		return nil, err
	}

	// A still-fresh verification for this email means the OTP challenge
	// has nothing left to prove; jump to the join-code step.
	if existing == nil {
		recent, err := s.passcodes.LatestConsumed(ctx, participant.ID, email)
		if err != nil {
			return nil, err
		}
		if recent != nil && recent.ConsumedAt != nil &&
			time.Since(*recent.ConsumedAt) <= s.cfg.VerifiedWindow() {
			return &RegisterResult{ParticipantID: participant.ID, NextStep: StepVerifyJoinCode}, nil
		}
	}

	if err := s.issuePasscode(ctx, participant, email); err != nil {
		return nil, err
	}
	return &RegisterResult{ParticipantID: participant.ID, NextStep: StepVerifyPasscode}, nil
}

func (s *RegistrationService) issuePasscode(ctx context.Context, participant *models.Participant, email string) error {
	code, err := utils.GeneratePasscode(s.cfg.Length)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	pc := &models.Passcode{
		ParticipantID: participant.ID,
		Email:         email,
		CodeHash:      string(hash),
		ExpiresAt:     time.Now().Add(s.cfg.TTL()),
	}
	if err := s.passcodes.Create(ctx, pc); err != nil {
		return err
	}
	// Delivery never blocks or fails the flow; failures are logged by
	// the sender.
	go s.sender.SendPasscode(*participant, code, s.cfg.TTL())
	s.log.Info("Passcode issued",
		zap.Uint("participantID", participant.ID),
		zap.String("email", email),
	)
	return nil
}

type VerifyPasscodeInput struct {
	ParticipantID uint
	Email         string
	Code          string
}

// VerifyPasscode checks the submitted code against the most recently
// issued one. After the configured number of failed attempts the code is
// burned even for the right answer.
func (s *RegistrationService) VerifyPasscode(ctx context.Context, in VerifyPasscodeInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !utils.IsDigits(in.Code, s.cfg.Length) {
		return apperr.Newf(apperr.KindValidation, "passcode must be %d digits", s.cfg.Length)
	}

	pc, err := s.passcodes.Latest(ctx, in.ParticipantID, email)
	if err != nil {
		return err
	}
	if pc == nil {
		return apperr.New(apperr.KindValidation, "invalid passcode")
	}
	if pc.Consumed() {
		return apperr.New(apperr.KindConflict, "passcode already verified")
	}
	if pc.FailedAttempts >= s.cfg.MaxAttempts {
		return apperr.New(apperr.KindRateLimit, "too many failed attempts, request a new passcode")
	}
	if pc.ExpiredAt(time.Now()) {
		return apperr.New(apperr.KindExpired, "passcode has expired")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pc.CodeHash), []byte(in.Code)); err != nil {
		if err := s.passcodes.IncrementFailed(ctx, pc.ID); err != nil {
			s.log.Error("Failed to record passcode attempt", zap.Error(err))
		}
		return apperr.New(apperr.KindValidation, "invalid passcode")
	}

	if err := s.passcodes.MarkConsumed(ctx, pc.ID, time.Now()); err != nil {
		return err
	}
	s.log.Info("Passcode verified", zap.Uint("participantID", in.ParticipantID))
	return nil
}

// ResendPasscode issues a fresh code, rate-limited to one issuance per
// resend interval for the (participant, email) pair.
func (s *RegistrationService) ResendPasscode(ctx context.Context, participantID uint, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !utils.IsValidEmail(email) {
		return apperr.New(apperr.KindValidation, "invalid email address")
	}
	participant, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		return err
	}
	if participant == nil {
		return apperr.New(apperr.KindNotFound, "participant not found")
	}
	if participant.Email != email {
		return apperr.New(apperr.KindValidation, "email does not match participant")
	}

	latest, err := s.passcodes.Latest(ctx, participantID, email)
	if err != nil {
		return err
	}
	if latest != nil && time.Since(latest.CreatedAt) < s.cfg.ResendInterval() {
		return apperr.New(apperr.KindRateLimit, "passcode was sent recently, wait before retrying")
	}
	return s.issuePasscode(ctx, participant, email)
}

type VerifyJoinCodeInput struct {
	TestID        uint
	ParticipantID uint
	Code          string
}

type VerifyJoinCodeResult struct {
	IsTestActive bool `json:"isTestActive"`
}

// VerifyJoinCode is the final gate before a session can start: the code
// must match the test's assigned one and the participant must hold a
// registration with no prior attempt.
func (s *RegistrationService) VerifyJoinCode(ctx context.Context, in VerifyJoinCodeInput) (*VerifyJoinCodeResult, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, apperr.New(apperr.KindValidation, "join code is required")
	}

	test, err := s.tests.GetTest(ctx, in.TestID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, apperr.New(apperr.KindNotFound, "test not found")
	}
	if test.Status == models.TestCompleted {
		return nil, apperr.New(apperr.KindPrecondition, "test has ended")
	}
	if test.Status == models.TestDraft || test.JoinCode == nil || *test.JoinCode != code {
		return nil, apperr.New(apperr.KindValidation, "invalid join code")
	}

	reg, err := s.participants.GetRegistration(ctx, in.TestID, in.ParticipantID)
	if err != nil {
		return nil, err
	}
	if reg == nil || reg.Status != models.RegistrationRegistered {
		return nil, apperr.New(apperr.KindPrecondition, "participant is not registered for this test")
	}

	existing, err := s.sessions.GetByTestAndParticipant(ctx, in.TestID, in.ParticipantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.SessionCompleted:
			return nil, apperr.New(apperr.KindConflict, "test already completed")
		case models.SessionInProgress:
			return nil, apperr.New(apperr.KindConflict, "test already started")
		}
	}

	return &VerifyJoinCodeResult{IsTestActive: test.Status == models.TestActive}, nil
}
