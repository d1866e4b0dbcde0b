// Package chat is a thin prompt-templating wrapper around the same model
// used for classification, aimed at personal-finance questions. State lives
// in an explicit session store, never in package globals.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/domain"
)

// TextGenerator is the model boundary, shared with classification.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// Assistant answers finance questions over a session's history and context.
type Assistant struct {
	gen   TextGenerator
	store *Store
	log   zerolog.Logger
}

// NewAssistant wires the assistant to a generator and session store.
func NewAssistant(gen TextGenerator, store *Store, log zerolog.Logger) *Assistant {
	return &Assistant{gen: gen, store: store, log: log}
}

// Send appends the user message to the session, asks the model, and returns
// the reply plus the (possibly newly created) session ID.
func (a *Assistant) Send(ctx context.Context, sessionID, message string) (string, string, error) {
	if strings.TrimSpace(message) == "" {
		return "", sessionID, fmt.Errorf("chat: empty message")
	}

	session := a.store.Get(sessionID)
	history, summary := session.snapshot()
	prompt := buildChatPrompt(history, summary, message)

	reply, err := a.gen.GenerateText(ctx, prompt, 0.7, 1024)
	if err != nil {
		a.log.Warn().Err(err).Str("session_id", session.ID).Msg("chat generation failed")
		return "", session.ID, fmt.Errorf("chat: %w", err)
	}

	session.appendTurn(message, reply)
	return reply, session.ID, nil
}

// AttachSummary sets the financial context cited by the system prompt.
func (a *Assistant) AttachSummary(sessionID string, summary domain.Summary) string {
	session := a.store.Get(sessionID)
	session.setSummary(&summary)
	return session.ID
}

// ClearSession drops a session's history and context.
func (a *Assistant) ClearSession(sessionID string) bool {
	return a.store.Clear(sessionID)
}

func buildChatPrompt(history []Message, summary *domain.Summary, message string) string {
	var b strings.Builder

	b.WriteString("Voce e um assistente financeiro especializado em financas pessoais.\n")
	b.WriteString("Seu objetivo e ajudar o usuario a:\n")
	b.WriteString("- Analisar seus gastos e receitas\n")
	b.WriteString("- Identificar oportunidades de economia\n")
	b.WriteString("- Sugerir otimizacoes no orcamento\n")
	b.WriteString("- Responder perguntas sobre suas transacoes\n\n")
	b.WriteString("Seja objetivo, amigavel e use exemplos praticos.\n")

	if summary != nil {
		s := summary
		b.WriteString("\nCONTEXTO FINANCEIRO DO USUARIO:\n")
		fmt.Fprintf(&b, "- Periodo: %s a %s\n", s.PeriodStart, s.PeriodEnd)
		fmt.Fprintf(&b, "- Total de receitas: %.2f\n", s.TotalIncome)
		fmt.Fprintf(&b, "- Total de despesas: %.2f\n", s.TotalExpenses)
		if len(s.Top3ExpenseCategories) > 0 {
			fmt.Fprintf(&b, "- Maiores categorias de gasto: %s\n", strings.Join(s.Top3ExpenseCategories, ", "))
		}
		for cat, total := range s.ByCategory {
			fmt.Fprintf(&b, "  - %s: %.2f\n", cat, total)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nCONVERSA ATE AGORA:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	b.WriteString("\nuser: ")
	b.WriteString(message)
	b.WriteString("\nassistant:")

	return b.String()
}
