package services

import (
	"fmt"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/models"

	"go.uber.org/zap"
)

// EmailNotifier delivers passcodes over email. This is a placeholder for
// a real SMTP/provider client; delivery failures are logged, never
// propagated to the registration flow.
type EmailNotifier struct {
	log *zap.Logger
}

func NewEmailNotifier(log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{log: log}
}

// SendPasscode simulates sending the one-time passcode email.
func (n *EmailNotifier) SendPasscode(participant models.Participant, code string, validFor time.Duration) {
	n.log.Info("Sending passcode email",
		zap.String("to", participant.Email),
		zap.String("name", participant.Name),
		zap.Duration("validFor", validFor),
	)
	// TODO: replace with a real SMTP client and a templated HTML email.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Your verification code\nHi %s,\nYour one-time passcode is %s. It expires in %d minutes.\n\n",
		participant.Email, participant.Name, code, int(validFor.Minutes()))
}
