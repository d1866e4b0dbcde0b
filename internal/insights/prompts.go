package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mvfreire/finsights/internal/domain"
)

// buildInsightsPrompt asks the model for alerts and savings recommendations
// over the aggregated numbers. Only the recommendations are consumed; alerts
// stay rule-based so their precedence order is deterministic.
func buildInsightsPrompt(byCategory map[string]float64, totalIncome, totalExpenses float64, historical []domain.HistoricalEntry) string {
	summary := map[string]interface{}{
		"by_category":    byCategory,
		"total_income":   totalIncome,
		"total_expenses": totalExpenses,
	}
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	var b strings.Builder
	b.WriteString("Voce e um analista financeiro. Analise o resumo de transacoes e gere insights. ")
	b.WriteString("Responda APENAS com JSON valido (sem markdown).\n\n")

	b.WriteString("Resumo atual:\n")
	b.Write(summaryJSON)
	b.WriteString("\n")

	if len(historical) > 0 {
		histJSON, _ := json.MarshalIndent(historical, "", "  ")
		b.WriteString("\nDados historicos (ultimos meses):\n")
		b.Write(histJSON)
		b.WriteString("\n")
	}

	b.WriteString("\nGere:\n")
	b.WriteString("1. Alertas sobre gastos elevados (se alguma categoria esta 20%+ acima da media esperada)\n")
	fmt.Fprintf(&b, "2. Recomendacoes praticas de economia (max %d)\n\n", maxRecommendations)

	b.WriteString("Responda SOMENTE com JSON neste formato:\n")
	b.WriteString("{\n")
	b.WriteString("  \"alerts\": [\n")
	b.WriteString("    {\"type\": \"high_spend\", \"message\": \"mensagem curta\", \"related_category\": \"categoria\"}\n")
	b.WriteString("  ],\n")
	b.WriteString("  \"recommendations\": [\n")
	b.WriteString("    {\"id\": \"rec_1\", \"text\": \"recomendacao objetiva em 30-50 palavras\", \"impact_estimate_pct\": 5}\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n")

	return b.String()
}
