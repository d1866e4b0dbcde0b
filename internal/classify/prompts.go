package classify

import (
	"fmt"
	"strings"

	"github.com/mvfreire/finsights/internal/domain"
)

// buildClassificationPrompt constructs the per-transaction prompt. The model
// must answer with a single raw JSON object carrying at least "category" and
// "confidence"; anything else triggers the heuristic fallback.
func buildClassificationPrompt(tx domain.NormalizedTransaction) string {
	raw := tx.Raw
	if raw == "" {
		raw = "N/A"
	}

	var b strings.Builder
	b.WriteString("Voce e um classificador de transacoes bancarias. ")
	b.WriteString("Analise a transacao abaixo e retorne APENAS um JSON valido (sem markdown, sem texto explicativo).\n\n")

	b.WriteString("Transacao:\n")
	fmt.Fprintf(&b, "- Descricao: %s\n", tx.Description)
	fmt.Fprintf(&b, "- Valor: %.2f\n", tx.Amount)
	fmt.Fprintf(&b, "- Moeda: %s\n", tx.Currency)
	fmt.Fprintf(&b, "- Raw: %s\n\n", raw)

	fmt.Fprintf(&b, "Categorias validas: %s\n\n", strings.Join(domain.Categories, ", "))

	b.WriteString("Responda SOMENTE com JSON neste formato exato:\n")
	b.WriteString("{\n")
	b.WriteString("  \"category\": \"categoria_escolhida\",\n")
	b.WriteString("  \"subcategory\": \"subcategoria_ou_null\",\n")
	b.WriteString("  \"confidence\": 0.0,\n")
	b.WriteString("  \"explanation\": \"Breve justificativa em 15-30 palavras\"\n")
	b.WriteString("}\n")

	return b.String()
}
