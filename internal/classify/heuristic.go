package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
)

// Classification is the uniform result contract shared by every
// classification strategy in the fallback chain.
type Classification struct {
	Category    string
	Subcategory string
	Confidence  float64
	Explanation string
}

type subcategoryRule struct {
	keyword     string
	subcategory string
}

// subcategoryRules map common keywords straight to a subcategory when the
// overlap scan finds nothing. Rules are checked in order; the first matching
// keyword wins.
var subcategoryRules = map[string][]subcategoryRule{
	domain.CategoryFood: {
		{"supermercado", "supermercado"},
		{"mercado", "supermercado"},
		{"padaria", "padaria"},
		{"restaurante", "restaurante"},
		{"lanchonete", "lanchonete"},
		{"ifood", "delivery"},
		{"rappi", "delivery"},
	},
	domain.CategoryTransport: {
		{"uber", "uber"},
		{"99", "taxi"},
		{"gas", "combustivel"},
		{"gasolina", "combustivel"},
		{"posto", "combustivel"},
	},
	domain.CategoryHealth: {
		{"farmacia", "farmacia"},
		{"drogaria", "farmacia"},
		{"consulta", "consulta"},
		{"plano", "plano_saude"},
	},
	domain.CategoryBills: {
		{"luz", "luz"},
		{"energia", "luz"},
		{"agua", "agua"},
		{"internet", "internet"},
		{"telefone", "telefone"},
	},
	domain.CategoryIncome: {
		{"salario", "salario"},
		{"freelance", "freelance"},
	},
}

// Heuristic is the deterministic, offline keyword classifier. It never
// fails; unmatched transactions land in the catch-all category at the
// confidence floor.
type Heuristic struct{}

// NewHeuristic creates the rule-based classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

type keywordMatch struct {
	category string
	keyword  string
}

// Classify assigns a category from the keyword table. Confidence starts at
// the floor and gains 0.1 per matching keyword, capped at the ceiling.
func (h *Heuristic) Classify(tx domain.NormalizedTransaction) Classification {
	description := strings.ToLower(tx.Description)

	category := domain.CategoryOther
	subcategory := ""
	confidence := config.HeuristicConfidenceFloor

	var matches []keywordMatch
	for _, cat := range config.KeywordCategoryOrder {
		for _, kw := range config.Keywords[cat] {
			if strings.Contains(description, kw) {
				matches = append(matches, keywordMatch{category: cat, keyword: kw})
			}
		}
	}

	if len(matches) > 0 {
		counts := make(map[string]int)
		for _, m := range matches {
			counts[m.category]++
		}

		// Most matches wins; ties break on table iteration order.
		best := 0
		for _, cat := range config.KeywordCategoryOrder {
			if counts[cat] > best {
				best = counts[cat]
				category = cat
			}
		}

		confidence = math.Min(
			config.HeuristicConfidenceCeil,
			config.HeuristicConfidenceFloor+float64(best)*0.1,
		)
		subcategory = inferSubcategory(category, description, matches)
	}

	if tx.Amount > config.IncomeAmountThreshold && category == domain.CategoryOther {
		category = domain.CategoryIncome
		subcategory = "outros"
		confidence = config.IncomeOverrideConfidence
	}

	for _, kw := range config.TransferKeywords {
		if strings.Contains(description, kw) {
			category = domain.CategoryTransfer
			if strings.Contains(description, "pix") {
				subcategory = "pix"
			} else {
				subcategory = "ted"
			}
			confidence = math.Min(0.6, confidence+0.1)
			break
		}
	}

	return Classification{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  round2(confidence),
		Explanation: explain(category, subcategory, matches),
	}
}

func inferSubcategory(category, description string, matches []keywordMatch) string {
	subs := config.Subcategories[category]

	for _, m := range matches {
		if m.category != category {
			continue
		}
		for _, sub := range subs {
			if strings.Contains(m.keyword, sub) || strings.Contains(sub, m.keyword) {
				return sub
			}
		}
	}

	for _, rule := range subcategoryRules[category] {
		if strings.Contains(description, rule.keyword) {
			return rule.subcategory
		}
	}

	return ""
}

func explain(category, subcategory string, matches []keywordMatch) string {
	var keywords []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if m.category == category && !seen[m.keyword] {
			seen[m.keyword] = true
			keywords = append(keywords, m.keyword)
		}
	}

	if len(keywords) == 0 {
		return "Classificacao baseada em analise heuristica padrao."
	}
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}

	if subcategory != "" {
		return fmt.Sprintf("Identificado como %s/%s baseado em palavras-chave: %s.",
			category, subcategory, strings.Join(keywords, ", "))
	}
	return fmt.Sprintf("Classificado como %s por correspondencia com: %s.",
		category, strings.Join(keywords, ", "))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
