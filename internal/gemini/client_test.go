package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/mvfreire/finsights/internal/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.GeminiConfig{
		Model:     "gemini-2.5-flash",
		Timeout:   10 * time.Second,
		RateLimit: 2,
		Burst:     4,
	})
	if err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"category": "alimentacao"}`,
			want:  `{"category": "alimentacao"}`,
		},
		{
			name:  "json fence with language tag",
			input: "```json\n{\"category\": \"alimentacao\"}\n```",
			want:  `{"category": "alimentacao"}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"ok\": true}\n```",
			want:  `{"ok": true}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```json\n[1, 2]\n```\n  ",
			want:  "[1, 2]",
		},
		{
			name:  "missing closing fence",
			input: "```json\n{\"partial\": 1}",
			want:  `{"partial": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripJSONFences(tt.input); got != tt.want {
				t.Errorf("StripJSONFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
