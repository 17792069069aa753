package rental

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/internal/pkg/mail"
)

// notifyPage fans out notifications for one page's flagged rentals. All
// rentals are dispatched in parallel; every individual delivery failure is
// caught and logged so the sweep always completes.
func (e *Engine) notifyPage(flagged []flaggedRental, today time.Time) {
	if len(flagged) == 0 || (e.Mail == nil && e.Chat == nil) {
		return
	}

	var wg sync.WaitGroup
	for _, f := range flagged {
		f := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("[Sweep] notification panic for rental %d: %v", f.rental.ID, r)
				}
			}()
			e.dispatchMail(f, today)
			e.dispatchChat(f, today)
			if e.RecordNotify != nil {
				e.RecordNotify(f.rental.ID)
			}
		}()
	}
	wg.Wait()
}

func (e *Engine) dispatchMail(f flaggedRental, today time.Time) {
	if e.Mail == nil || f.class == classInfo {
		return
	}
	r := f.rental
	to := r.Email.Address
	if to == "" {
		return
	}

	ctx := mail.RentalMailContext{
		CustomerName: r.Customer.Name,
		EmailAddress: r.Email.Address,
		AccountName:  r.AccountPrice.Account.Name,
		EndDate:      r.EndDate,
		DaysLeft:     r.DaysUntilEnd(today),
	}

	var err error
	if f.class == classExpired {
		err = e.Mail.SendExpired(to, ctx)
	} else {
		err = e.Mail.SendNearExpired(to, ctx)
	}
	if err != nil {
		log.Errorf("[Sweep] failed to mail rental %d to %s: %v", r.ID, to, err)
	}
}

func (e *Engine) dispatchChat(f flaggedRental, today time.Time) {
	if e.Chat == nil {
		return
	}
	if err := e.Chat.SendMessage("", e.buildChatMessage(f.rental, today)); err != nil {
		log.Errorf("[Sweep] failed to ping chat for rental %d: %v", f.rental.ID, err)
	}
}

// buildChatMessage renders the operator ping for one rental. The headline is
// re-derived from the same date-only day difference the classifier uses, so
// the two can never disagree.
func (e *Engine) buildChatMessage(r *models.Rental, today time.Time) string {
	daysLeft := r.DaysUntilEnd(today)

	var headline string
	switch {
	case daysLeft < 0:
		headline = fmt.Sprintf("❌ Rental EXPIRED %d day(s) ago", -daysLeft)
	case daysLeft <= e.NearExpiredDays:
		headline = fmt.Sprintf("⚠️ Rental expires in %d day(s)", daysLeft)
	default:
		headline = fmt.Sprintf("ℹ️ Rental has %d day(s) left", daysLeft)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", headline)
	fmt.Fprintf(&b, "Status: <b>%s</b>\n", r.Status)
	fmt.Fprintf(&b, "Customer: %s\n", r.Customer.Name)
	fmt.Fprintf(&b, "Account: %s\n", r.AccountPrice.Account.Name)
	fmt.Fprintf(&b, "Email: %s\n", r.Email.Address)
	fmt.Fprintf(&b, "End date: %s\n", r.EndDate.Format("2006-01-02"))
	if r.WorkspaceEmail != nil && r.WorkspaceEmail.Workspace.AdminAccount.Email != "" {
		fmt.Fprintf(&b, "Workspace admin: %s\n", r.WorkspaceEmail.Workspace.AdminAccount.Email)
	}
	return b.String()
}
