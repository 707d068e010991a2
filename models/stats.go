package models

// DashboardStats, sahibin dashboard özet sayıları. Gelir minor unit'tir.
type DashboardStats struct {
	TotalQuotes    int           `json:"total_quotes"`
	SentQuotes     int           `json:"sent_quotes"`
	AcceptedQuotes int           `json:"accepted_quotes"`
	PaidQuotes     int           `json:"paid_quotes"`
	TotalViews     int64         `json:"total_views"`
	TotalRevenue   int64         `json:"total_revenue"`
	RecentEvents   []RecentEvent `json:"recent_events"`
}
