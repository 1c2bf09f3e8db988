// Package roaming defines the plan, usage and recommendation records exchanged
// with the catalog and billing backends.
package roaming

// Plan is one roaming plan offered for a destination.
type Plan struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	DataGB      float64 `json:"data_gb"` // 0 means unlimited
	Days        int     `json:"days"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
}

// Usage is the subscriber's recent usage summary from the billing backend.
type Usage struct {
	UserID         string  `json:"user_id"`
	AvgDailyDataMB float64 `json:"avg_daily_data_mb"`
	MonthlyDataGB  float64 `json:"monthly_data_gb"`
	VoiceMinutes   int     `json:"voice_minutes"`
	CurrentPlan    string  `json:"current_plan,omitempty"`
}
