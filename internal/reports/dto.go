package reports

import "time"

// StatsDTO summarises a store's register activity over a window.
type StatsDTO struct {
	Days                    int       `json:"days"`
	WindowStart             time.Time `json:"window_start"`
	TotalRevenueCents       int64     `json:"total_revenue_cents"`
	TotalTransactions       int       `json:"total_transactions"`
	AverageTransactionCents int64     `json:"average_transaction_cents"`
	TotalRefunds            int       `json:"total_refunds"`
}

// DailyDTO is one UTC day of the breakdown.
type DailyDTO struct {
	Date                    string `json:"date"`
	TotalRevenueCents       int64  `json:"total_revenue_cents"`
	TotalTransactions       int    `json:"total_transactions"`
	AverageTransactionCents int64  `json:"average_transaction_cents"`
	TotalRefunds            int    `json:"total_refunds"`
}
