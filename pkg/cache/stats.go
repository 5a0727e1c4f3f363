package cache

// Stats is a point-in-time view of a cache's counters.
// Counters are cumulative over the cache's lifetime; TotalItems counts
// every stored entry, including expired ones not yet removed.
type Stats struct {
	TotalItems         int     `json:"totalItems"`
	HitCount           uint64  `json:"hitCount"`
	MissCount          uint64  `json:"missCount"`
	HitRate            float64 `json:"hitRate"`
	EstimatedSizeBytes int64   `json:"estimatedSizeBytes"`
	ExpiredCount       uint64  `json:"expiredCount"`
	EvictionCount      uint64  `json:"evictionCount"`
	PersistFailures    uint64  `json:"persistFailures"`
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
