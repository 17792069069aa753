package rental

import (
	"time"

	"gorm.io/gorm"

	"github.com/thangnm/rentacc/app/repository"
	"github.com/thangnm/rentacc/internal/pkg/env"
	"github.com/thangnm/rentacc/internal/pkg/mail"
)

// MailNotifier delivers expiry mails to customers.
type MailNotifier interface {
	SendNearExpired(to string, ctx mail.RentalMailContext) error
	SendExpired(to string, ctx mail.RentalMailContext) error
}

// ChatNotifier pings the operator chat. A nil notifier disables chat pings.
type ChatNotifier interface {
	SendMessage(chatID string, html string) error
}

// Engine orchestrates the rental lifecycle: creation, update, removal,
// renewal and the expiration sweep.
type Engine struct {
	db    *gorm.DB
	repos *repository.Repositories

	// NearExpiredDays is the threshold at which an active rental is
	// classified near-expired and its reminder goes out.
	NearExpiredDays int
	// SweepPageSize bounds how many rentals one sweep page loads.
	SweepPageSize int

	Mail MailNotifier
	Chat ChatNotifier

	// Now is swappable for tests; expiry math is date-only.
	Now func() time.Time

	// RecordSweep, when set, receives the summary of each finished sweep.
	RecordSweep func(SweepSummary)

	// RecordNotify, when set, is called once per rental whose notifications
	// were dispatched, for the pending notification counters.
	RecordNotify func(rentalID uint)
}

// NewEngine builds an engine over the given database handle with thresholds
// read from the environment. Notifiers default to off; callers wire them.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db:              db,
		repos:           repository.NewRepositories(db),
		NearExpiredDays: env.GetEnvInt("RENTAL_NEAR_EXPIRED_DAYS", 3),
		SweepPageSize:   env.GetEnvInt("RENTAL_SWEEP_PAGE_SIZE", 50),
		Now:             time.Now,
	}
}

type smtpNotifier struct{}

func (smtpNotifier) SendNearExpired(to string, ctx mail.RentalMailContext) error {
	return mail.SendRentalNearExpired(to, ctx)
}

func (smtpNotifier) SendExpired(to string, ctx mail.RentalMailContext) error {
	return mail.SendRentalExpired(to, ctx)
}

// NewSMTPNotifier returns the production mail notifier.
func NewSMTPNotifier() MailNotifier {
	return smtpNotifier{}
}

func (e *Engine) today() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
