package rental

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/internal/pkg/ability"
	"github.com/thangnm/rentacc/internal/pkg/mail"
)

var testDBSerial atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database: the engine validates concurrent update
	// checks on pooled side connections, which with a plain ":memory:" DSN
	// would each see their own empty database.
	dsn := fmt.Sprintf("file:rentals_test_%d?mode=memory&cache=shared", testDBSerial.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Email{},
		&models.Account{},
		&models.AdminAccount{},
		&models.RentalType{},
		&models.AccountPrice{},
		&models.Workspace{},
		&models.WorkspaceEmail{},
		&models.Rental{},
		&models.RentalRenew{},
	)
	require.NoError(t, err)

	return db
}

type mailRecorder struct {
	mu      sync.Mutex
	fail    bool
	near    []string
	expired []string
}

func (m *mailRecorder) SendNearExpired(to string, _ mail.RentalMailContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.near = append(m.near, to)
	return nil
}

func (m *mailRecorder) SendExpired(to string, _ mail.RentalMailContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.expired = append(m.expired, to)
	return nil
}

func (m *mailRecorder) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.near = nil
	m.expired = nil
}

func (m *mailRecorder) counts() (near, expired int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.near), len(m.expired)
}

type chatRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (c *chatRecorder) SendMessage(_ string, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, html)
	return nil
}

func (c *chatRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// fixture is a fully seeded engine over an in-memory database: one customer
// with two emails, one account with a price tier per rental type, and one
// workspace each for shared and business rentals.
type fixture struct {
	db   *gorm.DB
	eng  *Engine
	mail *mailRecorder
	chat *chatRecorder

	staff *ability.Abilities
	admin *ability.Abilities
	today time.Time

	customer models.Customer
	email    models.Email
	email2   models.Email

	personalPrice models.AccountPrice
	sharedPrice   models.AccountPrice
	businessPrice models.AccountPrice

	sharedWorkspace   models.Workspace
	businessWorkspace models.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:    setupTestDB(t),
		mail:  &mailRecorder{},
		chat:  &chatRecorder{},
		today: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
	}

	f.customer = models.Customer{Name: "Alice Nguyen", Phone: "0900000001"}
	require.NoError(t, f.db.Create(&f.customer).Error)

	f.email = models.Email{Address: "alice@example.com", CustomerID: f.customer.ID}
	require.NoError(t, f.db.Create(&f.email).Error)
	f.email2 = models.Email{Address: "alice.work@example.com", CustomerID: f.customer.ID}
	require.NoError(t, f.db.Create(&f.email2).Error)

	account := models.Account{Name: "CloudSuite"}
	require.NoError(t, f.db.Create(&account).Error)

	personal := models.RentalType{Type: models.RentalTypePersonal, Name: "Personal"}
	shared := models.RentalType{Type: models.RentalTypeShared, Name: "Shared"}
	business := models.RentalType{Type: models.RentalTypeBusiness, Name: "Business"}
	require.NoError(t, f.db.Create(&personal).Error)
	require.NoError(t, f.db.Create(&shared).Error)
	require.NoError(t, f.db.Create(&business).Error)

	f.personalPrice = models.AccountPrice{AccountID: account.ID, RentalTypeID: personal.ID, Price: 120, DurationMonths: 1}
	f.sharedPrice = models.AccountPrice{AccountID: account.ID, RentalTypeID: shared.ID, Price: 60, DurationMonths: 3}
	f.businessPrice = models.AccountPrice{AccountID: account.ID, RentalTypeID: business.ID, Price: 250, DurationMonths: 12}
	require.NoError(t, f.db.Create(&f.personalPrice).Error)
	require.NoError(t, f.db.Create(&f.sharedPrice).Error)
	require.NoError(t, f.db.Create(&f.businessPrice).Error)

	adminAccount := models.AdminAccount{AccountID: account.ID, Email: "pool-admin@example.com"}
	require.NoError(t, f.db.Create(&adminAccount).Error)

	f.sharedWorkspace = models.Workspace{Name: "Shared Pool A", Type: models.RentalTypeShared, MaxSlots: 5, AdminAccountID: adminAccount.ID}
	f.businessWorkspace = models.Workspace{Name: "Business Pool", Type: models.RentalTypeBusiness, MaxSlots: 10, AdminAccountID: adminAccount.ID}
	require.NoError(t, f.db.Create(&f.sharedWorkspace).Error)
	require.NoError(t, f.db.Create(&f.businessWorkspace).Error)

	f.eng = NewEngine(f.db)
	f.eng.NearExpiredDays = 3
	f.eng.SweepPageSize = 50
	f.eng.Mail = f.mail
	f.eng.Chat = f.chat
	f.eng.Now = func() time.Time { return f.today }

	f.staff = ability.Compute(&models.User{Role: models.ROLE_STAFF, Status: models.STATUS_ACTIVE})
	f.admin = ability.Compute(&models.User{Role: models.ROLE_ADMIN, Status: models.STATUS_ACTIVE})

	return f
}

func (f *fixture) date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// assertSameDate compares calendar dates only; timestamps read back from the
// database may carry a different location than the ones written.
func assertSameDate(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.Equal(t, want.UTC().Format("2006-01-02"), got.UTC().Format("2006-01-02"))
}

// seedRental inserts a rental row directly, bypassing the creation workflow,
// for sweep scenarios that need arbitrary dates and statuses.
func (f *fixture) seedRental(t *testing.T, email models.Email, price models.AccountPrice, endDate time.Time, status string, workspaceID *uint) *models.Rental {
	t.Helper()

	var slotID *uint
	if workspaceID != nil {
		slot := models.WorkspaceEmail{WorkspaceID: *workspaceID, EmailID: email.ID, Status: status}
		require.NoError(t, f.db.Create(&slot).Error)
		slotID = &slot.ID
	}

	rental := &models.Rental{
		CustomerID:       f.customer.ID,
		AccountPriceID:   price.ID,
		EmailID:          email.ID,
		WorkspaceEmailID: slotID,
		StartDate:        endDate.AddDate(0, -price.DurationMonths, 0),
		EndDate:          endDate,
		Status:           status,
	}
	require.NoError(t, f.db.Create(rental).Error)
	return rental
}
