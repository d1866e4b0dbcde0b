package domain

// RawTransaction is one transaction exactly as the caller submitted it.
// Dates are free-form strings; normalization happens downstream.
type RawTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Raw         string  `json:"raw,omitempty"`
}

// NormalizedTransaction is a RawTransaction after date, description and
// amount-sign normalization. Date is always an ISO-8601 calendar date
// (YYYY-MM-DD); amounts are signed, expenses negative and income positive.
type NormalizedTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Raw         string  `json:"raw,omitempty"`
}

// ClassifiedTransaction is a NormalizedTransaction plus a category
// assignment and the classifier's self-reported confidence in [0,1].
type ClassifiedTransaction struct {
	NormalizedTransaction

	Category              string  `json:"category"`
	Subcategory           string  `json:"subcategory,omitempty"`
	Confidence            float64 `json:"confidence"`
	NormalizedDescription string  `json:"normalized_description"`
	Explanation           string  `json:"explanation,omitempty"`
}

// HistoricalEntry is one caller-supplied prior-period aggregate, used only
// for trend comparison. Never persisted.
type HistoricalEntry struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Batch is one caller-submitted set of transactions processed together.
type Batch struct {
	UserID         string            `json:"user_id,omitempty"`
	Transactions   []RawTransaction  `json:"transactions"`
	HistoricalData []HistoricalEntry `json:"historical_data,omitempty"`
}

// NormalizedBatch is a Batch after validation and normalization. The
// historical data is carried through untouched; it belongs to the caller.
type NormalizedBatch struct {
	UserID         string
	Transactions   []NormalizedTransaction
	HistoricalData []HistoricalEntry
}
