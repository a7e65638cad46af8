package models

import "time"

// Participant identity is global, keyed by email across all tests.
// Re-registering with the same email overwrites name and phone in place.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"not null;index" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
)

// Registration joins a participant to a test; at most one per pair.
type Registration struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	TestID        uint               `gorm:"not null" json:"testId"`
	ParticipantID uint               `gorm:"not null" json:"participantId"`
	Status        RegistrationStatus `gorm:"not null;default:'registered'" json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// Passcode is a one-time emailed code proving ownership of an address.
// Only the bcrypt hash is stored; the plaintext exists just long enough
// to hand to the delivery channel.
type Passcode struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ParticipantID  uint       `gorm:"not null;index" json:"participantId"`
	Email          string     `gorm:"not null" json:"email"`
	CodeHash       string     `gorm:"not null" json:"-"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expiresAt"`
	ConsumedAt     *time.Time `json:"consumedAt,omitempty"`
	FailedAttempts int        `gorm:"not null;default:0" json:"failedAttempts"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (p *Passcode) Consumed() bool {
	return p.ConsumedAt != nil
}

func (p *Passcode) ExpiredAt(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
