package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutAttemptsTotal counts checkout attempts by final submission state.
	CheckoutAttemptsTotal *prometheus.CounterVec
	// SellerSubmissionsTotal counts per-seller order submissions by outcome.
	SellerSubmissionsTotal *prometheus.CounterVec
	// VoucherApplicationsTotal counts voucher evaluations by outcome.
	VoucherApplicationsTotal *prometheus.CounterVec
	// PaymentURLTotal counts payment redirect URL generations by outcome.
	PaymentURLTotal *prometheus.CounterVec
	// CheckoutSellerCount observes how many sellers each attempt fans out to.
	CheckoutSellerCount prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_attempts_total",
			Help:      "Count of checkout attempts by final state.",
		}, []string{"state"})
		SellerSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seller_submissions_total",
			Help:      "Count of per-seller order submissions by outcome.",
		}, []string{"result"})
		VoucherApplicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_applications_total",
			Help:      "Count of voucher eligibility evaluations by outcome.",
		}, []string{"outcome"})
		PaymentURLTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_url_total",
			Help:      "Count of payment redirect URL generations by outcome.",
		}, []string{"result"})
		CheckoutSellerCount = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_sellers_per_attempt",
			Help:      "Number of distinct sellers per checkout attempt.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		})

		mustRegisterCollector(reg, CheckoutAttemptsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutAttemptsTotal = v
			}
		})
		mustRegisterCollector(reg, SellerSubmissionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SellerSubmissionsTotal = v
			}
		})
		mustRegisterCollector(reg, VoucherApplicationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				VoucherApplicationsTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentURLTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentURLTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutSellerCount, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CheckoutSellerCount = v
			}
		})
	})
}

// RecordCheckoutAttempt increments the attempt counter if metrics are registered.
func RecordCheckoutAttempt(state string) {
	if CheckoutAttemptsTotal != nil {
		CheckoutAttemptsTotal.WithLabelValues(state).Inc()
	}
}

// RecordSellerSubmission increments the per-seller submission counter.
func RecordSellerSubmission(success bool) {
	if SellerSubmissionsTotal == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	SellerSubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordVoucherApplication increments the voucher evaluation counter.
func RecordVoucherApplication(outcome string) {
	if VoucherApplicationsTotal != nil {
		VoucherApplicationsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordPaymentURL increments the payment URL generation counter.
func RecordPaymentURL(result string) {
	if PaymentURLTotal != nil {
		PaymentURLTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCheckoutSellers records the seller fan-out of one attempt.
func ObserveCheckoutSellers(n int) {
	if CheckoutSellerCount != nil {
		CheckoutSellerCount.Observe(float64(n))
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
