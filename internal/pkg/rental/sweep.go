package rental

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thangnm/rentacc/app/models"
)

type classification int

const (
	classNone classification = iota
	classExpired
	classNearExpired
	classInfo
)

type flaggedRental struct {
	rental *models.Rental
	class  classification
}

// SweepSummary describes one finished sweep run.
type SweepSummary struct {
	RanAt       time.Time `json:"ran_at"`
	EmailFilter string    `json:"email_filter,omitempty"`
	Checked     int       `json:"checked"`
	Expired     int       `json:"expired"`
	NearExpired int       `json:"near_expired"`
}

// CheckExpiredAllPaginated scans rentals page by page, transitions overdue
// active rentals to expired (mirroring the status onto their workspace-email
// slots) and fans out notifications for every flagged record. With a
// non-empty emailFilter it inspects that email's rentals regardless of
// status and reports on them without requiring a fresh expiry.
//
// Page persistence and notification failures are logged and neutralized so
// one bad record never halts the sweep; repeated runs converge on the same
// end state because only rentals whose real-world expiry condition matches
// are touched.
func (e *Engine) CheckExpiredAllPaginated(pageSize int, emailFilter string) (string, error) {
	if pageSize <= 0 {
		pageSize = e.SweepPageSize
	}
	today := e.today()
	summary := SweepSummary{RanAt: today, EmailFilter: emailFilter}

	skip := 0
	for {
		var (
			page []models.Rental
			err  error
		)
		if emailFilter != "" {
			page, err = e.repos.Rental.PageByEmailAddress(emailFilter, skip, pageSize)
		} else {
			page, err = e.repos.Rental.PageActive(skip, pageSize)
		}
		if err != nil {
			return "", internal("failed to fetch rental page", err)
		}
		if len(page) == 0 {
			break
		}

		var (
			flagged        []flaggedRental
			expiredRentals []*models.Rental
			expiredSlots   []*models.WorkspaceEmail
		)
		for i := range page {
			r := &page[i]
			class, err := e.classify(r, today, emailFilter != "")
			if err != nil {
				// A classification defect means inconsistent data, which is
				// worth halting on, unlike transport failures below.
				log.Errorf("[Sweep] classification failed for rental %d: %v", r.ID, err)
				return "", err
			}
			switch class {
			case classExpired:
				expiredRentals = append(expiredRentals, r)
				if r.WorkspaceEmail != nil {
					r.WorkspaceEmail.Status = models.RentalStatusExpired
					expiredSlots = append(expiredSlots, r.WorkspaceEmail)
				}
				summary.Expired++
				flagged = append(flagged, flaggedRental{rental: r, class: class})
			case classNearExpired:
				summary.NearExpired++
				flagged = append(flagged, flaggedRental{rental: r, class: class})
			case classInfo:
				flagged = append(flagged, flaggedRental{rental: r, class: class})
			}
		}

		persisted := true
		if err := e.repos.Rental.SaveAll(expiredRentals); err != nil {
			log.Errorf("[Sweep] failed to persist %d expired rentals: %v", len(expiredRentals), err)
			persisted = false
		}
		if err := e.repos.WorkspaceEmail.SaveAll(expiredSlots); err != nil {
			log.Errorf("[Sweep] failed to persist %d workspace emails: %v", len(expiredSlots), err)
		}

		e.notifyPage(flagged, today)

		summary.Checked += len(page)

		// Persisted expirations drop out of the active result set, shifting
		// the rows behind them forward; advance the offset only past the
		// rows that still match the page query or unseen rows get skipped.
		if emailFilter == "" && persisted {
			skip += len(page) - len(expiredRentals)
		} else {
			skip += len(page)
		}
	}

	if e.RecordSweep != nil {
		e.RecordSweep(summary)
	}
	log.Infof("[Sweep] finished: %d checked, %d expired, %d near expired", summary.Checked, summary.Expired, summary.NearExpired)

	return fmt.Sprintf("%d data has been checked", summary.Checked), nil
}

// classify buckets one rental into exactly one classification for this
// pass, mutating the in-memory status when it expired today.
func (e *Engine) classify(r *models.Rental, today time.Time, filtered bool) (classification, error) {
	switch r.Status {
	case models.RentalStatusActive, models.RentalStatusExpired:
	default:
		return classNone, internal(fmt.Sprintf("rental %d has unknown status %q", r.ID, r.Status), nil)
	}

	if r.Status == models.RentalStatusActive && r.IsExpiredAt(today) {
		r.Status = models.RentalStatusExpired
		return classExpired, nil
	}
	if r.IsNearExpiredAt(today, e.NearExpiredDays) {
		return classNearExpired, nil
	}
	if filtered {
		return classInfo, nil
	}
	return classNone, nil
}
