package metrics

import "github.com/prometheus/client_golang/prometheus"

// SaleMetrics tracks register activity.
type SaleMetrics struct {
	created  *prometheus.CounterVec
	refunded prometheus.Counter
	rejected *prometheus.CounterVec
	revenue  prometheus.Counter
}

func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_created_total",
		Help: "Completed sales by payment method.",
	}, []string{"payment_method"})
	refunded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_refunded_total",
		Help: "Refunded sales.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_rejected_total",
		Help: "Sale attempts rejected before commit, by error code.",
	}, []string{"code"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_revenue_cents_total",
		Help: "Gross revenue of completed sales in cents.",
	})
	reg.MustRegister(created, refunded, rejected, revenue)
	return &SaleMetrics{
		created:  created,
		refunded: refunded,
		rejected: rejected,
		revenue:  revenue,
	}
}

func (s *SaleMetrics) SaleCreated(paymentMethod string, totalCents int64) {
	if s == nil || s.created == nil {
		return
	}
	s.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	if totalCents > 0 {
		s.revenue.Add(float64(totalCents))
	}
}

func (s *SaleMetrics) SaleRefunded() {
	if s == nil || s.refunded == nil {
		return
	}
	s.refunded.Inc()
}

func (s *SaleMetrics) SaleRejected(code string) {
	if s == nil || s.rejected == nil {
		return
	}
	s.rejected.WithLabelValues(normalizeLabel(code)).Inc()
}
