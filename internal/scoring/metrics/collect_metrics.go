package metrics

import (
	"runtime"
	"time"
)

// Collects system resource metrics
func collectSystemMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Update memory usage (current allocated bytes)
	MemoryUsageBytes.Set(float64(memStats.Alloc))

	// Update active goroutines count
	GoroutinesActive.Set(float64(runtime.NumGoroutine()))

	// Update garbage collection duration (total pause time in seconds)
	GCDurationSeconds.Set(float64(memStats.PauseTotalNs) / 1e9)
}

// TrackHTTPRequest tracks HTTP request metrics
func TrackHTTPRequest(method, endpoint, statusCode string) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
}

// TrackScoreComputed tracks one computed TigerScore
func TrackScoreComputed() {
	ScoresComputedTotal.Inc()
}

// TrackLoanDecision tracks a loan decision outcome
func TrackLoanDecision(approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	LoanDecisionsTotal.WithLabelValues(outcome).Inc()
}

// TrackChainUpdate tracks an on-chain score write attempt
func TrackChainUpdate(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	ChainUpdatesTotal.WithLabelValues(status).Inc()
}

// TrackWalletUpdate tracks a per-wallet cycle outcome
func TrackWalletUpdate(status string) {
	WalletUpdatesTotal.WithLabelValues(status).Inc()
}

// TrackCycleCompletion tracks a finished recalculation cycle
func TrackCycleCompletion(duration time.Duration) {
	UpdateCyclesTotal.Inc()
	CycleDurationSeconds.Observe(duration.Seconds())
}
