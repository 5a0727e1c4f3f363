package cache

import "github.com/prometheus/client_golang/prometheus"

const (
	metricNamespace = "cachekit"
	metricSubsystem = "cache"
)

func newDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(metricNamespace, metricSubsystem, name),
		help,
		[]string{"cache"},
		nil,
	)
}

// Collector exports the stats of every cache in a Registry. Values are
// read on each scrape, so caches created later are picked up.
type Collector struct {
	registry *Registry

	items           *prometheus.Desc
	hits            *prometheus.Desc
	misses          *prometheus.Desc
	expired         *prometheus.Desc
	evictions       *prometheus.Desc
	persistFailures *prometheus.Desc
	sizeBytes       *prometheus.Desc
	hitRatio        *prometheus.Desc
}

// NewCollector creates a collector for r.
//
// Example:
//
//	prometheus.MustRegister(cache.NewCollector(reg))
func NewCollector(r *Registry) *Collector {
	return &Collector{
		registry:        r,
		items:           newDesc("items", "Entries currently stored, including expired ones not yet removed"),
		hits:            newDesc("hits_total", "Get calls that returned a value"),
		misses:          newDesc("misses_total", "Get calls that found no live entry"),
		expired:         newDesc("expired_total", "Entries removed because they expired"),
		evictions:       newDesc("evictions_total", "Entries evicted to respect the size bound"),
		persistFailures: newDesc("persist_failures_total", "Snapshot loads and saves that failed"),
		sizeBytes:       newDesc("size_bytes", "Approximate encoded size of stored entries"),
		hitRatio:        newDesc("hit_ratio", "Hits divided by hits plus misses"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.items
	ch <- c.hits
	ch <- c.misses
	ch <- c.expired
	ch <- c.evictions
	ch <- c.persistFailures
	ch <- c.sizeBytes
	ch <- c.hitRatio
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, ns := range c.registry.AllStats() {
		s := ns.Stats
		ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(s.TotalItems), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.HitCount), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.MissCount), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(s.ExpiredCount), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.EvictionCount), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.persistFailures, prometheus.CounterValue, float64(s.PersistFailures), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.sizeBytes, prometheus.GaugeValue, float64(s.EstimatedSizeBytes), ns.Name)
		ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRate, ns.Name)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
