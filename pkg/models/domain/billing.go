package domain

import "time"

// TimeWindow is the query window handed to the metrics backend. Period covers
// the whole window so a single-statistic query yields at most one datapoint.
type TimeWindow struct {
	Start  time.Time
	End    time.Time
	Period int32 // seconds
}

// NewDayWindow returns the rolling 24-hour window ending at now.
func NewDayWindow(now time.Time) TimeWindow {
	start := now.Add(-24 * time.Hour)
	return TimeWindow{
		Start:  start,
		End:    now,
		Period: int32(now.Sub(start) / time.Second),
	}
}

type ServiceBilling struct {
	Name string
	Cost float64 // USD
}

// Billing holds the account-wide estimate and the per-service breakdown.
// Total is taken from the backend as-is; it is not reconciled against the
// sum of Services.
type Billing struct {
	Total    float64
	Services []ServiceBilling
}
