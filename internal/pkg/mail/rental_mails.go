package mail

import (
	"fmt"
	"time"
)

// RentalMailContext carries the fields the expiry templates render.
type RentalMailContext struct {
	CustomerName string
	EmailAddress string
	AccountName  string
	EndDate      time.Time
	DaysLeft     int
}

// SendRentalNearExpired notifies a customer that their rental runs out in a
// few days.
func SendRentalNearExpired(to string, ctx RentalMailContext) error {
	subject := fmt.Sprintf("Your %s rental expires in %d day(s)", ctx.AccountName, ctx.DaysLeft)
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Your rental of <strong>%s</strong> for <strong>%s</strong> will expire on <strong>%s</strong> (%d day(s) left).</p>
		<p>Please contact us if you want to renew it.</p>
		<p>Thank you!</p>`,
		ctx.CustomerName, ctx.AccountName, ctx.EmailAddress,
		ctx.EndDate.Format("2006-01-02"), ctx.DaysLeft,
	)
	return SendMail(to, subject, body)
}

// SendRentalExpired notifies a customer that their rental has expired.
func SendRentalExpired(to string, ctx RentalMailContext) error {
	subject := fmt.Sprintf("Your %s rental has expired", ctx.AccountName)
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Your rental of <strong>%s</strong> for <strong>%s</strong> expired on <strong>%s</strong>.</p>
		<p>Access will be removed shortly. Contact us to renew.</p>
		<p>Thank you!</p>`,
		ctx.CustomerName, ctx.AccountName, ctx.EmailAddress,
		ctx.EndDate.Format("2006-01-02"),
	)
	return SendMail(to, subject, body)
}
