package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
)

func testNormalizer() *Normalizer {
	return New(config.PipelineConfig{
		MaxBatchSize:         200,
		MaxDescriptionLength: 100,
	})
}

func TestNormalizeDate(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name   string
		date   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "already ISO", date: "2025-11-10", want: "2025-11-10", wantOK: true},
		{name: "day first slash", date: "10/11/2025", want: "2025-11-10", wantOK: true},
		{name: "day first dash", date: "10-11-2025", want: "2025-11-10", wantOK: true},
		{name: "year first slash", date: "2025/11/10", want: "2025-11-10", wantOK: true},
		{name: "dots", date: "10.11.2025", want: "2025-11-10", wantOK: true},
		{name: "surrounding spaces", date: "  2025-11-10  ", want: "2025-11-10", wantOK: true},
		{name: "extracted from raw", date: "???", raw: "10/11/2025 PADARIA PAO DOCE 25.90", want: "2025-11-10", wantOK: true},
		{name: "unparseable", date: "not a date at all", wantOK: false},
		{name: "empty without raw", date: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.NormalizeDate(tt.date, tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDate(%q, %q) ok = %v, want %v", tt.date, tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeDate(%q, %q) = %q, want %q", tt.date, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "title cases", input: "PADARIA PAO DOCE", want: "Padaria Pao Doce"},
		{name: "collapses whitespace", input: "UBER   VIAGEM", want: "Uber Viagem"},
		{name: "strips special characters", input: "PAG*ELETRO#", want: "Pageletro"},
		{name: "keeps accents", input: "AÇAÍ DA PRAÇA", want: "Açaí Da Praça"},
		{name: "strips trailing reference code", input: "COMPRA CARTAO 12345678", want: "Compra Cartao"},
		{name: "keeps short trailing number", input: "POSTO 99", want: "Posto 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.NormalizeDescription(tt.input); got != tt.want {
				t.Errorf("NormalizeDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDescription_Idempotent(t *testing.T) {
	n := testNormalizer()

	inputs := []string{
		"PADARIA PAO DOCE",
		"UBER   VIAGEM",
		"SUPERMERCADO EXTRA 98765432",
		strings.Repeat("PAGAMENTO BOLETO ", 20),
	}

	for _, input := range inputs {
		once := n.NormalizeDescription(input)
		twice := n.NormalizeDescription(once)
		if once != twice {
			t.Errorf("NormalizeDescription not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeDescription_Truncates(t *testing.T) {
	n := testNormalizer()

	long := strings.Repeat("Mercado Grande ", 20)
	got := n.NormalizeDescription(long)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated description to end with ellipsis, got %q", got)
	}
	if len([]rune(got)) > 100 {
		t.Errorf("description too long after truncation: %d runes", len([]rune(got)))
	}
}

func TestMaskSensitive(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name    string
		input   string
		want    string
		wantHit bool
	}{
		{name: "cpf", input: "Pagamento 123.456.789-01", want: "Pagamento ***", wantHit: true},
		{name: "partial account", input: "Conta 12345-6", want: "Conta ***", wantHit: true},
		{name: "card number", input: "Cartao 1234 5678 9012 3456", want: "Cartao ***", wantHit: true},
		{name: "clean text", input: "Padaria Pao Doce", want: "Padaria Pao Doce", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := n.MaskSensitive(tt.input)
			if got != tt.want || hit != tt.wantHit {
				t.Errorf("MaskSensitive(%q) = (%q, %v), want (%q, %v)", tt.input, got, hit, tt.want, tt.wantHit)
			}
		})
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		description string
		want        float64
	}{
		{name: "income stays positive", amount: 3500, description: "SALARIO NOVEMBRO", want: 3500},
		{name: "income flipped positive", amount: -3500, description: "DEPOSITO SALARIO", want: 3500},
		{name: "expense flipped negative", amount: 25.90, description: "PADARIA PAO DOCE", want: -25.90},
		{name: "expense stays negative", amount: -25.90, description: "PADARIA PAO DOCE", want: -25.90},
		{name: "transfer exempt from negation", amount: 100, description: "PIX RECEBIDO JOAO", want: 100},
		{name: "ted exempt from negation", amount: 250, description: "TED ENVIADA", want: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAmount(tt.amount, tt.description); got != tt.want {
				t.Errorf("NormalizeAmount(%v, %q) = %v, want %v", tt.amount, tt.description, got, tt.want)
			}
		})
	}
}

func TestDetectDuplicates(t *testing.T) {
	n := testNormalizer()

	a := domain.NormalizedTransaction{ID: "t1", Date: "2025-11-10", Description: "PADARIA PAO DOCE", Amount: -25.90}
	b := domain.NormalizedTransaction{ID: "t2", Date: "2025-11-10", Description: "PADARIA PAO DOCE", Amount: -25.90}
	c := domain.NormalizedTransaction{ID: "t3", Date: "2025-11-11", Description: "POSTO SHELL", Amount: -150}

	pairs := n.DetectDuplicates([]domain.NormalizedTransaction{a, b, c})
	if len(pairs) != 1 || pairs[0] != [2]int{0, 1} {
		t.Fatalf("expected exactly one pair (0,1), got %v", pairs)
	}

	// Order independence: swapping the slice swaps the indices, nothing else.
	swapped := n.DetectDuplicates([]domain.NormalizedTransaction{b, a, c})
	if len(swapped) != 1 || swapped[0] != [2]int{0, 1} {
		t.Fatalf("expected exactly one pair (0,1) after swap, got %v", swapped)
	}
}

func TestDetectDuplicates_NearAmounts(t *testing.T) {
	n := testNormalizer()

	a := domain.NormalizedTransaction{ID: "t1", Date: "2025-11-10", Description: "UBER VIAGEM", Amount: -32.50}
	b := domain.NormalizedTransaction{ID: "t2", Date: "2025-11-10", Description: "UBER VIAGEM", Amount: -32.505}
	c := domain.NormalizedTransaction{ID: "t3", Date: "2025-11-10", Description: "UBER VIAGEM", Amount: -33.50}

	pairs := n.DetectDuplicates([]domain.NormalizedTransaction{a, b, c})
	if len(pairs) != 1 || pairs[0] != [2]int{0, 1} {
		t.Fatalf("expected only the near-identical amounts to pair, got %v", pairs)
	}
}

func TestNormalize_BatchSizeLimit(t *testing.T) {
	n := New(config.PipelineConfig{MaxBatchSize: 2, MaxDescriptionLength: 100})

	batch := &domain.Batch{Transactions: []domain.RawTransaction{
		{ID: "t1", Date: "2025-11-10", Description: "A", Amount: -1},
		{ID: "t2", Date: "2025-11-10", Description: "B", Amount: -2},
		{ID: "t3", Date: "2025-11-10", Description: "C", Amount: -3},
	}}

	_, _, err := n.Normalize(batch)
	if err == nil {
		t.Fatal("expected error for oversized batch")
	}
	if !IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestNormalize_UnparseableDateGetsNote(t *testing.T) {
	n := testNormalizer()
	n.now = func() time.Time { return time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC) }

	batch := &domain.Batch{Transactions: []domain.RawTransaction{
		{ID: "t1", Date: "mystery", Description: "PADARIA", Amount: -10},
	}}

	normalized, notes, err := n.Normalize(batch)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if normalized.Transactions[0].Date != "2025-12-01" {
		t.Errorf("expected processing date substitution, got %q", normalized.Transactions[0].Date)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "t1") {
		t.Errorf("expected a processing note naming the transaction, got %v", notes)
	}
}

func TestNormalize_DefaultsCurrency(t *testing.T) {
	n := testNormalizer()

	batch := &domain.Batch{Transactions: []domain.RawTransaction{
		{ID: "t1", Date: "2025-11-10", Description: "PADARIA", Amount: -10},
	}}

	normalized, _, err := n.Normalize(batch)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if normalized.Transactions[0].Currency != DefaultCurrency {
		t.Errorf("expected default currency %q, got %q", DefaultCurrency, normalized.Transactions[0].Currency)
	}
}

func TestNormalize_MasksSensitiveWithNote(t *testing.T) {
	n := testNormalizer()

	batch := &domain.Batch{Transactions: []domain.RawTransaction{
		{ID: "t9", Date: "2025-11-10", Description: "PAGAMENTO CPF 123.456.789-01", Amount: -10},
	}}

	_, notes, err := n.Normalize(batch)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "masked sensitive data") {
		t.Errorf("expected masking note, got %v", notes)
	}
}
