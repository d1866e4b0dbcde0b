package config

import "github.com/mvfreire/finsights/internal/domain"

// Subcategories maps each category to its known subcategories.
var Subcategories = map[string][]string{
	domain.CategoryFood:      {"restaurante", "supermercado", "padaria", "lanchonete", "delivery", "bar"},
	domain.CategoryTransport: {"combustivel", "uber", "taxi", "onibus", "metro", "pedagio", "estacionamento"},
	domain.CategoryHousing:   {"aluguel", "condominio", "iptu", "manutencao"},
	domain.CategoryLeisure:   {"cinema", "streaming", "viagem", "evento", "restaurante_lazer"},
	domain.CategoryHealth:    {"farmacia", "consulta", "plano_saude", "exame", "dentista"},
	domain.CategoryShopping:  {"roupas", "eletronicos", "casa", "presentes", "diversos"},
	domain.CategoryBills:     {"luz", "agua", "internet", "telefone", "gas", "tv"},
	domain.CategoryTransfer:  {"pix", "ted", "doc"},
	domain.CategoryIncome:    {"salario", "freelance", "investimento", "bonus", "restituicao"},
	domain.CategoryEducation: {"curso", "livro", "mensalidade", "material"},
	domain.CategoryOther:     {},
}

// Keywords is the per-category keyword table driving the heuristic
// classifier. Matching is lowercase substring containment.
var Keywords = map[string][]string{
	domain.CategoryFood: {
		"padaria", "supermercado", "mercado", "restaurante", "lanchonete", "pizzaria",
		"hamburgueria", "ifood", "rappi", "uber eats", "bar", "cafeteria", "acai",
		"sorveteria", "pao", "feira", "hortifruti",
	},
	domain.CategoryTransport: {
		"uber", "99", "taxi", "gas", "gasolina", "etanol", "combustivel", "posto",
		"shell", "ipiranga", "onibus", "metro", "estacionamento", "pedagio",
		"mecanica", "oficina",
	},
	domain.CategoryHousing: {
		"aluguel", "condominio", "iptu", "imovel", "casa", "apt", "apartamento",
	},
	domain.CategoryLeisure: {
		"cinema", "spotify", "netflix", "amazon prime", "disney", "hbo", "ingresso",
		"viagem", "hotel", "pousada", "airbnb", "turismo", "parque",
	},
	domain.CategoryHealth: {
		"farmacia", "drogaria", "droga", "consulta", "medic", "hospital", "clinica",
		"plano saude", "unimed", "amil", "bradesco saude", "laboratorio", "exame",
		"dentista", "odonto",
	},
	domain.CategoryShopping: {
		"magazine", "loja", "mercado livre", "amazon", "shopee", "aliexpress",
		"c&a", "renner", "zara", "americanas", "submarino", "casas bahia",
		"extra", "eletro",
	},
	domain.CategoryBills: {
		"luz", "energia", "cemig", "cpfl", "enel", "agua", "sabesp", "cedae",
		"internet", "vivo", "claro", "tim", "oi", "telefone", "celular", "gas",
		"tv cabo", "net", "sky",
	},
	domain.CategoryTransfer: {
		"pix", "ted", "doc", "transf", "pagamento", "envio", "transfer",
	},
	domain.CategoryIncome: {
		"salario", "pagamento", "deposito", "credito", "recebimento", "freelance",
		"rendimento", "dividendo", "bonus", "restituicao", "ir",
	},
	domain.CategoryEducation: {
		"escola", "faculdade", "universidade", "curso", "livraria", "livro",
		"estacio", "anhanguera", "unip", "udemy", "coursera", "alura", "material escolar",
	},
}

// KeywordCategoryOrder fixes the iteration order over Keywords so that
// classification ties break deterministically.
var KeywordCategoryOrder = []string{
	domain.CategoryFood,
	domain.CategoryTransport,
	domain.CategoryHousing,
	domain.CategoryLeisure,
	domain.CategoryHealth,
	domain.CategoryShopping,
	domain.CategoryBills,
	domain.CategoryTransfer,
	domain.CategoryIncome,
	domain.CategoryEducation,
}

// IncomeKeywords flag descriptions whose amounts should stay positive.
var IncomeKeywords = []string{
	"salario", "deposito", "credito", "recebimento",
	"rendimento", "dividendo", "bonus", "restituicao",
}

// TransferKeywords are exempt from forced expense negation and force the
// transfer category during classification.
var TransferKeywords = []string{"pix", "ted", "doc", "transf"}

// SensitivePatterns are masked out of normalized descriptions: document
// numbers (CPF), partial account numbers, card-number-like sequences.
var SensitivePatterns = []string{
	`\d{3}\.\d{3}\.\d{3}-\d{2}`,
	`\d{5}-\d{1}`,
	`\d{4}\s?\d{4}\s?\d{4}\s?\d{4}`,
}

// DateFormats are tried in order before falling back to permissive parsing.
var DateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
}

// Heuristic classifier tuning.
const (
	// HeuristicConfidenceFloor and HeuristicConfidenceCeil bound the
	// confidence the keyword classifier may report.
	HeuristicConfidenceFloor = 0.3
	HeuristicConfidenceCeil  = 0.6

	// IncomeAmountThreshold: positive amounts above this with no keyword
	// match are treated as income.
	IncomeAmountThreshold    = 500.0
	IncomeOverrideConfidence = 0.4
)
