package normalize

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mvfreire/finsights/internal/domain"
)

// DefaultCurrency is assumed when the input omits a currency.
const DefaultCurrency = "BRL"

// requiredColumns must all be present in a tabular header row.
var requiredColumns = []string{"id", "date", "description", "amount"}

// ParseInput accepts the three supported input shapes and returns a raw
// batch: a JSON object with a "transactions" array, a bare JSON array of
// transactions, or delimited tabular text with a header row. Anything else
// fails with a ValidationError.
func (n *Normalizer) ParseInput(body []byte) (*domain.Batch, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, validationErrorf("empty input")
	}

	switch trimmed[0] {
	case '{':
		var payload struct {
			UserID         string                   `json:"user_id"`
			Transactions   []json.RawMessage        `json:"transactions"`
			HistoricalData []domain.HistoricalEntry `json:"historical_data"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, validationErrorf("invalid JSON object: %v", err)
		}
		if payload.Transactions == nil {
			return nil, validationErrorf("input object must contain a 'transactions' array")
		}
		txs, err := decodeTransactions(payload.Transactions)
		if err != nil {
			return nil, err
		}
		return &domain.Batch{
			UserID:         payload.UserID,
			Transactions:   txs,
			HistoricalData: payload.HistoricalData,
		}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, validationErrorf("invalid JSON array: %v", err)
		}
		txs, err := decodeTransactions(items)
		if err != nil {
			return nil, err
		}
		return &domain.Batch{Transactions: txs}, nil

	default:
		return parseTabular(string(trimmed))
	}
}

// decodeTransactions decodes each element as a generic object so that
// missing required fields are reported precisely instead of defaulting to
// zero values.
func decodeTransactions(items []json.RawMessage) ([]domain.RawTransaction, error) {
	txs := make([]domain.RawTransaction, 0, len(items))

	for i, item := range items {
		var obj map[string]interface{}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, validationErrorf("transaction %d: not a JSON object: %v", i, err)
		}

		tx, err := transactionFromObject(obj)
		if err != nil {
			return nil, validationErrorf("transaction %d: %v", i, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func transactionFromObject(obj map[string]interface{}) (domain.RawTransaction, error) {
	id, err := getStringField(obj, "id", true)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	date, err := getStringField(obj, "date", true)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	desc, err := getStringField(obj, "description", true)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	currency, err := getStringField(obj, "currency", false)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	raw, err := getStringField(obj, "raw", false)
	if err != nil {
		return domain.RawTransaction{}, err
	}

	if currency == "" {
		currency = DefaultCurrency
	}

	return domain.RawTransaction{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      amount,
		Currency:    currency,
		Raw:         raw,
	}, nil
}

// parseTabular reads delimited text whose header row carries at least the
// required columns. Currency and raw are optional and defaulted.
func parseTabular(text string) (*domain.Batch, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, validationErrorf("tabular parsing error: %v", err)
	}
	if len(records) < 2 {
		return nil, validationErrorf("tabular input contains no data rows")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, validationErrorf("tabular input must contain columns: %s", strings.Join(requiredColumns, ", "))
		}
	}

	txs := make([]domain.RawTransaction, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		amount, err := strconv.ParseFloat(cell("amount"), 64)
		if err != nil {
			return nil, validationErrorf("row %d: invalid amount %q", rowNum+1, cell("amount"))
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, validationErrorf("row %d: amount is not finite", rowNum+1)
		}

		id := cell("id")
		if id == "" {
			return nil, validationErrorf("row %d: missing id", rowNum+1)
		}

		currency := cell("currency")
		if currency == "" {
			currency = DefaultCurrency
		}

		txs = append(txs, domain.RawTransaction{
			ID:          id,
			Date:        cell("date"),
			Description: cell("description"),
			Amount:      amount,
			Currency:    currency,
			Raw:         cell("raw"),
		})
	}

	return &domain.Batch{Transactions: txs}, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("field %q is not finite", key)
		}
		return val, nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
