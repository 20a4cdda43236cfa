package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startTime = time.Now()

	// UptimeSeconds tracks the service uptime in seconds
	UptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "uptime_seconds",
		Help:      "Time passed since the scoring service started in seconds",
	})

	// Memory usage metrics
	MemoryUsageBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "memory_usage_bytes",
		Help:      "Memory consumption",
	})

	// Goroutines active metrics
	GoroutinesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "goroutines_active",
		Help:      "Number of active goroutines",
	})

	// Garbage collection duration metrics
	GCDurationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "gc_duration_seconds",
		Help:      "Garbage collection time",
	})

	// Monitored wallets currently under periodic watch
	MonitoredWallets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "monitored_wallets",
		Help:      "Number of wallets in the monitored set",
	})

	// Scores computed
	ScoresComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "scores_computed_total",
		Help:      "Total number of TigerScores computed",
	})

	// Loan decisions by outcome
	LoanDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "loan_decisions_total",
		Help:      "Loan underwriting decisions (approved/rejected)",
	}, []string{"outcome"})

	// Chain score submissions by status
	ChainUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "chain_updates_total",
		Help:      "On-chain score update attempts (success/failed)",
	}, []string{"status"})

	// Update cycles run by the orchestrator
	UpdateCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "update_cycles_total",
		Help:      "Periodic recalculation cycles completed",
	})

	// Per-wallet cycle outcomes
	WalletUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "wallet_updates_total",
		Help:      "Per-wallet update outcomes within cycles (success/failed/skipped)",
	}, []string{"status"})

	// Cycle duration
	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "cycle_duration_seconds",
		Help:      "Time taken to run a full recalculation cycle in seconds",
		Buckets:   []float64{1, 5, 10, 50, 100, 500},
	})

	// HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tigertrust",
		Subsystem: "scoring",
		Name:      "http_requests_total",
		Help:      "HTTP API requests received",
	}, []string{"method", "endpoint", "status_code"})

	collectOnce sync.Once
)

// StartMetricsCollection starts the background runtime metric loop
func StartMetricsCollection() {
	collectOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()

			for range ticker.C {
				UptimeSeconds.Set(time.Since(startTime).Seconds())
				collectSystemMetrics()
			}
		}()
	})
}
