package domain

// Spending categories. The set is closed: any classifier output outside it
// is forced to CategoryOther with its confidence capped.
const (
	CategoryFood      = "alimentacao"
	CategoryTransport = "transporte"
	CategoryHousing   = "moradia"
	CategoryLeisure   = "lazer"
	CategoryHealth    = "saude"
	CategoryShopping  = "compras"
	CategoryBills     = "contas"
	CategoryTransfer  = "transferencia"
	CategoryIncome    = "renda"
	CategoryEducation = "educacao"
	CategoryOther     = "outros"
)

// Categories lists the closed category set in a stable order.
var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryLeisure,
	CategoryHealth,
	CategoryShopping,
	CategoryBills,
	CategoryTransfer,
	CategoryIncome,
	CategoryEducation,
	CategoryOther,
}

var categorySet = func() map[string]bool {
	set := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		set[c] = true
	}
	return set
}()

// ValidCategory reports whether name belongs to the closed category set.
func ValidCategory(name string) bool {
	return categorySet[name]
}
