package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetCustomerRepository returns the customer repository instance
func (f *Factory) GetCustomerRepository() CustomerRepository {
	return f.GetRepositories().Customer
}

// GetEmailRepository returns the email repository instance
func (f *Factory) GetEmailRepository() EmailRepository {
	return f.GetRepositories().Email
}

// GetAccountPriceRepository returns the account price repository instance
func (f *Factory) GetAccountPriceRepository() AccountPriceRepository {
	return f.GetRepositories().AccountPrice
}

// GetWorkspaceRepository returns the workspace repository instance
func (f *Factory) GetWorkspaceRepository() WorkspaceRepository {
	return f.GetRepositories().Workspace
}

// GetWorkspaceEmailRepository returns the workspace email repository instance
func (f *Factory) GetWorkspaceEmailRepository() WorkspaceEmailRepository {
	return f.GetRepositories().WorkspaceEmail
}

// GetRentalRepository returns the rental repository instance
func (f *Factory) GetRentalRepository() RentalRepository {
	return f.GetRepositories().Rental
}

// GetRentalRenewRepository returns the rental renew repository instance
func (f *Factory) GetRentalRenewRepository() RentalRenewRepository {
	return f.GetRepositories().RentalRenew
}

// Global factory instance
var globalFactory *Factory
var factoryMu sync.Mutex

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	globalFactory = NewFactory(db)
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
