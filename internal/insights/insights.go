// Package insights aggregates a classified batch into a financial summary:
// per-category totals, top expense categories, period bounds, historical
// trends, alerts, and savings recommendations. Recommendations prefer the
// external model, mirroring the classification fallback contract.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/gemini"
)

const (
	maxAlerts          = 5
	maxRecommendations = 3
	// maxRecommendationText caps recommendation length.
	maxRecommendationText = 250

	// highSpendSharePct flags a category above this share of total expenses.
	highSpendSharePct = 30
	// unusualCategoryMinCount low-confidence transactions flag a category.
	unusualCategoryMinCount = 3
	// alertLowConfidence is the confidence floor for the unusual-category alert.
	alertLowConfidence = 0.5
	// historicalSpikePct flags total expenses this far above the supplied
	// historical total.
	historicalSpikePct = 20
)

// TextGenerator is the model boundary for AI-sourced recommendations.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// Engine computes summaries. gen may be nil, which keeps recommendations
// rule-based.
type Engine struct {
	gen       TextGenerator
	trendUp   float64
	trendDown float64
	now       func() time.Time
	log       zerolog.Logger
}

// NewEngine builds the aggregation engine from pipeline configuration.
func NewEngine(gen TextGenerator, cfg config.PipelineConfig, log zerolog.Logger) *Engine {
	return &Engine{
		gen:       gen,
		trendUp:   cfg.TrendThresholdUpPct,
		trendDown: cfg.TrendThresholdDownPct,
		now:       time.Now,
		log:       log,
	}
}

// Summarize aggregates the classified batch. An empty batch yields a zeroed
// summary dated at processing time, not an error.
func (e *Engine) Summarize(ctx context.Context, txs []domain.ClassifiedTransaction, historical []domain.HistoricalEntry) domain.Summary {
	if len(txs) == 0 {
		return e.emptySummary()
	}

	byCategory := make(map[string]float64)
	totalIncome := 0.0
	totalExpenses := 0.0
	periodStart := txs[0].Date
	periodEnd := txs[0].Date

	for _, tx := range txs {
		byCategory[tx.Category] += tx.Amount
		if tx.Amount > 0 {
			totalIncome += tx.Amount
		} else {
			totalExpenses += -tx.Amount
		}
		// ISO dates compare lexically.
		if tx.Date < periodStart {
			periodStart = tx.Date
		}
		if tx.Date > periodEnd {
			periodEnd = tx.Date
		}
	}

	trend := e.calculateTrends(byCategory, historical)

	rounded := make(map[string]float64, len(byCategory))
	for cat, v := range byCategory {
		rounded[cat] = round2(v)
	}

	return domain.Summary{
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		TotalIncome:           round2(totalIncome),
		TotalExpenses:         round2(totalExpenses),
		ByCategory:            rounded,
		Top3ExpenseCategories: topExpenseCategories(byCategory, 3),
		Trend:                 trend,
		Alerts:                e.generateAlerts(byCategory, totalExpenses, historical, txs),
		Recommendations:       e.generateRecommendations(ctx, byCategory, totalIncome, totalExpenses, trend, historical),
	}
}

func (e *Engine) emptySummary() domain.Summary {
	today := e.now().Format("2006-01-02")
	return domain.Summary{
		PeriodStart:           today,
		PeriodEnd:             today,
		ByCategory:            map[string]float64{},
		Top3ExpenseCategories: []string{},
		Trend:                 map[string]domain.TrendInfo{},
		Alerts:                []domain.Alert{},
		Recommendations:       []domain.Recommendation{},
	}
}

// topExpenseCategories returns the categories with the largest absolute
// negative totals. Ties break on the closed category-set order.
func topExpenseCategories(byCategory map[string]float64, n int) []string {
	type entry struct {
		category string
		expense  float64
	}

	var entries []entry
	for _, cat := range domain.Categories {
		if v, ok := byCategory[cat]; ok && v < 0 {
			entries = append(entries, entry{category: cat, expense: -v})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].expense > entries[j].expense
	})

	top := make([]string, 0, n)
	for i := 0; i < len(entries) && i < n; i++ {
		top = append(top, entries[i].category)
	}
	return top
}

// calculateTrends compares each category's absolute total against the
// average of its historical entries. Categories without history stay stable
// at 0%.
func (e *Engine) calculateTrends(byCategory map[string]float64, historical []domain.HistoricalEntry) map[string]domain.TrendInfo {
	trends := make(map[string]domain.TrendInfo, len(byCategory))

	histSums := make(map[string]float64)
	histCounts := make(map[string]int)
	for _, h := range historical {
		if h.Category == "" {
			continue
		}
		histSums[h.Category] += math.Abs(h.Amount)
		histCounts[h.Category]++
	}

	for cat, current := range byCategory {
		count := histCounts[cat]
		if count == 0 || histSums[cat] == 0 {
			trends[cat] = domain.TrendInfo{ChangePct: 0, Direction: domain.TrendStable}
			continue
		}

		avg := histSums[cat] / float64(count)
		changePct := (math.Abs(current) - avg) / avg * 100

		direction := domain.TrendStable
		switch {
		case changePct >= e.trendUp:
			direction = domain.TrendUp
		case changePct <= e.trendDown:
			direction = domain.TrendDown
		}

		trends[cat] = domain.TrendInfo{ChangePct: round1(changePct), Direction: direction}
	}

	return trends
}

// generateAlerts applies the rule set in precedence order and caps the
// result at maxAlerts.
func (e *Engine) generateAlerts(byCategory map[string]float64, totalExpenses float64, historical []domain.HistoricalEntry, txs []domain.ClassifiedTransaction) []domain.Alert {
	alerts := []domain.Alert{}

	if totalExpenses > 0 {
		for _, cat := range domain.Categories {
			amount, ok := byCategory[cat]
			if !ok || amount >= 0 {
				continue
			}
			share := -amount / totalExpenses * 100
			if share > highSpendSharePct {
				alerts = append(alerts, domain.Alert{
					Type:            domain.AlertHighSpend,
					Message:         fmt.Sprintf("%s representa %.0f%% dos gastos totais", cat, share),
					RelatedCategory: cat,
				})
			}
		}
	}

	lowConfidence := make(map[string]int)
	for _, tx := range txs {
		if tx.Confidence < alertLowConfidence {
			lowConfidence[tx.Category]++
		}
	}
	for _, cat := range domain.Categories {
		if count := lowConfidence[cat]; count >= unusualCategoryMinCount {
			alerts = append(alerts, domain.Alert{
				Type:            domain.AlertUnusualCategory,
				Message:         fmt.Sprintf("%d transacoes em %s com baixa confianca de classificacao", count, cat),
				RelatedCategory: cat,
			})
		}
	}

	if len(historical) > 0 {
		historicalTotal := 0.0
		for _, h := range historical {
			historicalTotal += math.Abs(h.Amount)
		}
		if historicalTotal > 0 {
			changePct := (totalExpenses - historicalTotal) / historicalTotal * 100
			if changePct > historicalSpikePct {
				alerts = append(alerts, domain.Alert{
					Type:    domain.AlertHighSpend,
					Message: fmt.Sprintf("Gastos %.0f%% acima da media dos ultimos periodos", changePct),
				})
			}
		}
	}

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

// modelInsights mirrors the JSON object requested from the model.
type modelInsights struct {
	Alerts          []json.RawMessage `json:"alerts"`
	Recommendations []struct {
		ID                string   `json:"id"`
		Text              string   `json:"text"`
		ImpactEstimatePct *float64 `json:"impact_estimate_pct"`
	} `json:"recommendations"`
}

// generateRecommendations prefers the model and falls back to the fixed
// rule priority. Model failures are absorbed silently, matching the
// classification fallback contract.
func (e *Engine) generateRecommendations(ctx context.Context, byCategory map[string]float64, totalIncome, totalExpenses float64, trend map[string]domain.TrendInfo, historical []domain.HistoricalEntry) []domain.Recommendation {
	if e.gen != nil {
		if recs := e.modelRecommendations(ctx, byCategory, totalIncome, totalExpenses, historical); len(recs) > 0 {
			return recs
		}
	}

	recommendations := []domain.Recommendation{}

	if totalIncome > 0 {
		savingsRate := (totalIncome - totalExpenses) / totalIncome * 100
		if savingsRate < 10 {
			impact := 10.0
			recommendations = append(recommendations, domain.Recommendation{
				ID:                "rec_savings",
				Text:              "Sua taxa de poupanca esta abaixo de 10%. Tente guardar pelo menos 10-20% da renda mensal para seguranca financeira.",
				ImpactEstimatePct: &impact,
			})
		}
	}

	if topCat, topExpense := maxExpenseCategory(byCategory); topCat != "" && topExpense > 0 {
		if info, ok := trend[topCat]; ok && info.Direction == domain.TrendUp {
			impact := math.Abs(info.ChangePct)
			recommendations = append(recommendations, domain.Recommendation{
				ID:                "rec_" + topCat,
				Text:              fmt.Sprintf("Gastos em %s estao em alta. Avalie possibilidades de reducao nesta categoria para economizar.", topCat),
				ImpactEstimatePct: &impact,
			})
		}
	}

	if len(recommendations) == 0 && totalExpenses > totalIncome*0.8 {
		impact := 5.0
		recommendations = append(recommendations, domain.Recommendation{
			ID:                "rec_general",
			Text:              "Considere revisar pequenas despesas recorrentes (assinaturas, delivery) que somadas fazem diferenca no orcamento.",
			ImpactEstimatePct: &impact,
		})
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// modelRecommendations runs the insight call against the model. Returns nil
// on any failure; only a debug log records what went wrong.
func (e *Engine) modelRecommendations(ctx context.Context, byCategory map[string]float64, totalIncome, totalExpenses float64, historical []domain.HistoricalEntry) []domain.Recommendation {
	prompt := buildInsightsPrompt(byCategory, totalIncome, totalExpenses, historical)

	response, err := e.gen.GenerateText(ctx, prompt, 0.4, 800)
	if err != nil {
		e.log.Debug().Err(err).Msg("AI insights failed, using heuristic recommendations")
		return nil
	}

	var parsed modelInsights
	if err := json.Unmarshal([]byte(gemini.StripJSONFences(response)), &parsed); err != nil {
		e.log.Debug().Err(err).Msg("malformed AI insights response")
		return nil
	}

	recs := make([]domain.Recommendation, 0, maxRecommendations)
	for _, r := range parsed.Recommendations {
		if len(recs) == maxRecommendations {
			break
		}
		if r.Text == "" {
			continue
		}
		id := r.ID
		if id == "" {
			id = "rec_" + uuid.NewString()[:8]
		}
		text := r.Text
		if len([]rune(text)) > maxRecommendationText {
			text = string([]rune(text)[:maxRecommendationText])
		}
		recs = append(recs, domain.Recommendation{
			ID:                id,
			Text:              text,
			ImpactEstimatePct: r.ImpactEstimatePct,
		})
	}
	return recs
}

func maxExpenseCategory(byCategory map[string]float64) (string, float64) {
	best := ""
	bestExpense := 0.0
	for _, cat := range domain.Categories {
		if v, ok := byCategory[cat]; ok && v < 0 && -v > bestExpense {
			best = cat
			bestExpense = -v
		}
	}
	return best, bestExpense
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
