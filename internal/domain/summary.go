package domain

// TrendDirection values for category trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Alert types.
const (
	AlertHighSpend         = "high_spend"
	AlertLowBalance        = "low_balance"
	AlertUnusualCategory   = "unusual_category"
	AlertPossibleDuplicate = "possible_duplicate"
)

// TrendInfo describes how a category moved against its historical average.
type TrendInfo struct {
	ChangePct float64 `json:"change_pct"`
	Direction string  `json:"direction"`
}

// Alert flags an abnormal spending pattern detected during aggregation.
type Alert struct {
	Type            string `json:"type"`
	Message         string `json:"message"`
	RelatedCategory string `json:"related_category,omitempty"`
}

// Recommendation is one actionable savings tip, AI-sourced when available.
type Recommendation struct {
	ID                string   `json:"id"`
	Text              string   `json:"text"`
	ImpactEstimatePct *float64 `json:"impact_estimate_pct,omitempty"`
}

// Summary is the aggregated view of one classified batch. TotalIncome and
// TotalExpenses are non-negative; ByCategory keeps signed totals.
type Summary struct {
	PeriodStart           string               `json:"period_start"`
	PeriodEnd             string               `json:"period_end"`
	TotalIncome           float64              `json:"total_income"`
	TotalExpenses         float64              `json:"total_expenses"`
	ByCategory            map[string]float64   `json:"by_category"`
	Top3ExpenseCategories []string             `json:"top_3_expense_categories"`
	Trend                 map[string]TrendInfo `json:"trend"`
	Alerts                []Alert              `json:"alerts"`
	Recommendations       []Recommendation     `json:"recommendations"`
}

// ProcessedResult is the final payload for one batch: every classified
// transaction plus the summary. ModelVersion records which classification
// path dominated.
type ProcessedResult struct {
	UserID          string                  `json:"user_id,omitempty"`
	ProcessedAt     string                  `json:"processed_at"`
	Transactions    []ClassifiedTransaction `json:"transactions"`
	Summary         Summary                 `json:"summary"`
	ModelVersion    string                  `json:"model_version"`
	ProcessingNotes string                  `json:"processing_notes,omitempty"`
}
