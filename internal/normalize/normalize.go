// Package normalize turns heterogeneous caller input into a uniform,
// validated transaction batch: it parses the three accepted input shapes,
// normalizes dates to ISO-8601, cleans and masks descriptions, fixes amount
// signs, and flags likely duplicates.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
)

// MaskToken replaces any sensitive substring in a description.
const MaskToken = "***"

// duplicatePrefixLen is how many description characters must match for two
// transactions to count as a candidate duplicate pair.
const duplicatePrefixLen = 20

var (
	descAllowed     = regexp.MustCompile(`[^\w\s\-.,áàâãéèêíïóôõöúçñÁÀÂÃÉÈÊÍÏÓÔÕÖÚÇÑ]`)
	multiSpace      = regexp.MustCompile(`\s+`)
	trailingRefCode = regexp.MustCompile(`\s+\d{5,}$`)
	dateInRaw       = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
)

// Normalizer validates and normalizes raw batches. It is stateless across
// batches; the clock is injectable for tests.
type Normalizer struct {
	maxBatchSize int
	maxDescLen   int
	sensitive    []*regexp.Regexp
	now          func() time.Time
}

// New builds a Normalizer from pipeline configuration.
func New(cfg config.PipelineConfig) *Normalizer {
	sensitive := make([]*regexp.Regexp, 0, len(config.SensitivePatterns))
	for _, p := range config.SensitivePatterns {
		sensitive = append(sensitive, regexp.MustCompile(p))
	}
	return &Normalizer{
		maxBatchSize: cfg.MaxBatchSize,
		maxDescLen:   cfg.MaxDescriptionLength,
		sensitive:    sensitive,
		now:          time.Now,
	}
}

// Normalize validates the batch size and normalizes every transaction.
// Date-parsing failures and sensitive-data hits are best-effort corrections
// reported as processing notes, never hard failures.
func (n *Normalizer) Normalize(batch *domain.Batch) (*domain.NormalizedBatch, []string, error) {
	if len(batch.Transactions) > n.maxBatchSize {
		return nil, nil, validationErrorf(
			"batch size %d exceeds maximum of %d transactions, split into smaller batches",
			len(batch.Transactions), n.maxBatchSize)
	}

	var notes []string
	normalized := make([]domain.NormalizedTransaction, 0, len(batch.Transactions))

	for i, tx := range batch.Transactions {
		if tx.ID == "" {
			return nil, nil, validationErrorf("transaction %d: missing id", i)
		}
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			return nil, nil, validationErrorf("transaction %s: amount is not finite", tx.ID)
		}

		date, ok := n.NormalizeDate(tx.Date, tx.Raw)
		if !ok {
			notes = append(notes, fmt.Sprintf("could not parse date for transaction %s", tx.ID))
			date = n.now().Format("2006-01-02")
		}

		if _, hit := n.MaskSensitive(n.NormalizeDescription(tx.Description)); hit {
			notes = append(notes, fmt.Sprintf("masked sensitive data in transaction %s", tx.ID))
		}

		currency := tx.Currency
		if currency == "" {
			currency = DefaultCurrency
		}

		normalized = append(normalized, domain.NormalizedTransaction{
			ID:          tx.ID,
			Date:        date,
			Description: tx.Description,
			Amount:      NormalizeAmount(tx.Amount, tx.Description),
			Currency:    currency,
			Raw:         tx.Raw,
		})
	}

	return &domain.NormalizedBatch{
		UserID:         batch.UserID,
		Transactions:   normalized,
		HistoricalData: batch.HistoricalData,
	}, notes, nil
}

// NormalizeDate resolves a free-form date to an ISO-8601 calendar date.
// It tries the configured explicit formats, then a permissive day-first
// parse, then a date-looking substring of raw. Returns false when nothing
// works; the caller substitutes the processing date.
func (n *Normalizer) NormalizeDate(dateStr, raw string) (string, bool) {
	trimmed := strings.TrimSpace(dateStr)

	for _, layout := range config.DateFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	if trimmed != "" {
		if t, err := dateparse.ParseAny(trimmed, dateparse.PreferMonthFirst(false)); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	if raw != "" {
		if m := dateInRaw.FindString(raw); m != "" {
			return n.NormalizeDate(m, "")
		}
	}

	return "", false
}

// NormalizeDescription cleans a transaction description: strips characters
// outside letters/digits/basic punctuation (accented letters preserved),
// collapses whitespace, drops trailing long reference codes, title-cases,
// and truncates to the configured maximum length.
func (n *Normalizer) NormalizeDescription(description string) string {
	s := descAllowed.ReplaceAllString(description, "")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	s = trailingRefCode.ReplaceAllString(s, "")
	s = titleCase(s)

	// The ellipsis counts toward the cap so that re-normalizing an already
	// truncated description is a no-op.
	if len([]rune(s)) > n.maxDescLen {
		runes := []rune(s)[:n.maxDescLen-3]
		cut := string(runes)
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		s = cut + "..."
	}

	if s == "" {
		runes := []rune(description)
		if len(runes) > 50 {
			runes = runes[:50]
		}
		return string(runes)
	}
	return s
}

// CleanDescription is the normalized, masked form stored on classified
// transactions.
func (n *Normalizer) CleanDescription(description string) string {
	masked, _ := n.MaskSensitive(n.NormalizeDescription(description))
	return masked
}

// MaskSensitive replaces configured sensitive patterns (document numbers,
// partial account numbers, card-like sequences) with the mask token.
func (n *Normalizer) MaskSensitive(text string) (string, bool) {
	masked := text
	hit := false
	for _, re := range n.sensitive {
		if re.MatchString(masked) {
			hit = true
			masked = re.ReplaceAllString(masked, MaskToken)
		}
	}
	return masked, hit
}

// NormalizeAmount enforces the sign convention: expenses negative, income
// positive. Income-looking descriptions are flipped positive; everything
// else positive is flipped negative unless it looks like a transfer.
func NormalizeAmount(amount float64, description string) float64 {
	desc := strings.ToLower(description)

	isIncome := false
	for _, kw := range config.IncomeKeywords {
		if strings.Contains(desc, kw) {
			isIncome = true
			break
		}
	}

	if isIncome && amount < 0 {
		return math.Abs(amount)
	}

	if !isIncome && amount > 0 {
		for _, kw := range config.TransferKeywords {
			if strings.Contains(desc, kw) {
				return amount
			}
		}
		return -amount
	}

	return amount
}

// DetectDuplicates returns index pairs (i < j) of candidate duplicates:
// near-identical amount, same date, matching normalized-description prefix.
// Pairs are reported, never removed; the dedup policy belongs to the caller.
func (n *Normalizer) DetectDuplicates(txs []domain.NormalizedTransaction) [][2]int {
	prefixes := make([]string, len(txs))
	for i, tx := range txs {
		prefixes[i] = descPrefix(n.NormalizeDescription(tx.Description))
	}

	var pairs [][2]int
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			if math.Abs(txs[i].Amount-txs[j].Amount) < 0.01 &&
				txs[i].Date == txs[j].Date &&
				prefixes[i] == prefixes[j] {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

func descPrefix(s string) string {
	runes := []rune(s)
	if len(runes) > duplicatePrefixLen {
		runes = runes[:duplicatePrefixLen]
	}
	return string(runes)
}

// titleCase uppercases the first letter of each word and lowercases the
// rest, matching the behaviour expected by downstream keyword matching.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		runes := []rune(w)
		for j, r := range runes {
			if j == 0 {
				runes[j] = unicode.ToUpper(r)
			} else {
				runes[j] = unicode.ToLower(r)
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
