package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/internal/pkg/cache"
	"github.com/thangnm/rentacc/internal/pkg/database"
)

const (
	CacheKeyRentalsActive  = "statistics:rentals:active"
	CacheKeyRentalsExpired = "statistics:rentals:expired"
	CacheKeyCustomersTotal = "statistics:customers:total"
	CacheExpiration        = 30 * time.Minute
)

// StatisticsData holds the dashboard counters.
type StatisticsData struct {
	ActiveRentals  int `json:"active_rentals"`
	ExpiredRentals int `json:"expired_rentals"`
	TotalCustomers int `json:"total_customers"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are due a refresh.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if time.Since(lastCacheUpdate) > cacheUpdateInterval {
		lastCacheUpdate = time.Now()
		return true
	}
	return false
}

// GetStatistics returns the dashboard counters, served from the cache when
// fresh and recomputed from the database otherwise.
func GetStatistics() StatisticsData {
	if ShouldUpdateCache() {
		UpdateCache()
	}

	return StatisticsData{
		ActiveRentals:  getCachedCount(CacheKeyRentalsActive, countRentalsByStatus(models.RentalStatusActive)),
		ExpiredRentals: getCachedCount(CacheKeyRentalsExpired, countRentalsByStatus(models.RentalStatusExpired)),
		TotalCustomers: getCachedCount(CacheKeyCustomersTotal, countCustomers()),
	}
}

// UpdateCache recomputes all counters and writes them to the cache.
func UpdateCache() {
	setCachedCount(CacheKeyRentalsActive, countRentalsByStatus(models.RentalStatusActive))
	setCachedCount(CacheKeyRentalsExpired, countRentalsByStatus(models.RentalStatusExpired))
	setCachedCount(CacheKeyCustomersTotal, countCustomers())
}

func getCachedCount(key string, fallback int) int {
	value, err := cache.Get(key)
	if err != nil {
		return fallback
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return count
}

func setCachedCount(key string, count int) {
	if err := cache.Set(key, strconv.Itoa(count), CacheExpiration); err != nil {
		log.Printf("Warning: could not cache %s: %v", key, err)
	}
}

func countRentalsByStatus(status string) int {
	var count int64
	if err := database.GetDB().Model(&models.Rental{}).Where("status = ?", status).Count(&count).Error; err != nil {
		log.Printf("Warning: could not count rentals with status %s: %v", status, err)
		return 0
	}
	return int(count)
}

func countCustomers() int {
	var count int64
	if err := database.GetDB().Model(&models.Customer{}).Count(&count).Error; err != nil {
		log.Printf("Warning: could not count customers: %v", err)
		return 0
	}
	return int(count)
}
