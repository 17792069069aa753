package rental

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"

	"github.com/thangnm/rentacc/internal/pkg/cache"
)

const sweepSummaryCacheKey = "rental:sweep:last_run"

// RecordSweepToCache stores the latest sweep summary for the admin status
// endpoint. Cache failures are logged only; the sweep result stands.
func RecordSweepToCache(s SweepSummary) {
	payload, err := json.Marshal(s)
	if err != nil {
		log.Errorf("[Sweep] failed to encode sweep summary: %v", err)
		return
	}
	if err := cache.Set(sweepSummaryCacheKey, payload, 0); err != nil {
		log.Errorf("[Sweep] failed to cache sweep summary: %v", err)
	}
}

// LastSweepFromCache loads the most recent sweep summary, if any.
func LastSweepFromCache() (*SweepSummary, error) {
	raw, err := cache.Get(sweepSummaryCacheKey)
	if err != nil {
		return nil, err
	}
	var s SweepSummary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
