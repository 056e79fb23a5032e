package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"insight_backend/internal/feature/insight/domain/entity"
	mentity "insight_backend/internal/feature/market/domain/entity"
)

// mockTextGenerator is a mock implementation of the TextGenerator interface.
type mockTextGenerator struct {
	// GenerateFunc is called when the Generate method is invoked.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	lastPrompt   string
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("not configured")
}

func testQuote() *mentity.QuoteSnapshot {
	return &mentity.QuoteSnapshot{
		Price:         150.0,
		Change:        1.5,
		ChangePercent: 1.01,
		Volume:        1000000,
		MarketCap:     2500000000,
		EPS:           6.1,
		High52Week:    199.6,
		Low52Week:     124.2,
	}
}

func testNews() []mentity.NewsArticle {
	return []mentity.NewsArticle{
		{Title: "Apple beats expectations", Source: "Reuters", Description: "Strong quarter."},
	}
}

func TestInsightUsecase_AnalyzeSentiment(t *testing.T) {
	t.Run("plain JSON response", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"score": 0.6, "label": "Bullish", "confidence": 0.8, "reasoning": "Positive earnings."}`, nil
			},
		}
		uc := NewInsightUsecase(gen)

		analysis, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if analysis.Score != 0.6 {
			t.Errorf("expected score 0.6, got %f", analysis.Score)
		}
		if analysis.Label != "Bullish" {
			t.Errorf("expected label Bullish, got %q", analysis.Label)
		}
		if analysis.Reasoning != "Positive earnings." {
			t.Errorf("unexpected reasoning %q", analysis.Reasoning)
		}

		// The prompt carries the ticker, market data, and headlines
		if !strings.Contains(gen.lastPrompt, "AAPL") {
			t.Error("expected prompt to contain the ticker")
		}
		if !strings.Contains(gen.lastPrompt, "Apple beats expectations") {
			t.Error("expected prompt to contain the headline")
		}
		if !strings.Contains(gen.lastPrompt, "$150") {
			t.Error("expected prompt to contain the price")
		}
	})

	t.Run("fenced JSON response", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "Here is the analysis:\n```json\n{\"score\": -0.3, \"label\": \"Bearish\", \"confidence\": 0.7, \"reasoning\": \"Weak guidance.\"}\n```\nLet me know if you need more.", nil
			},
		}
		uc := NewInsightUsecase(gen)

		analysis, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if analysis.Score != -0.3 {
			t.Errorf("expected score -0.3, got %f", analysis.Score)
		}
		if analysis.Label != "Bearish" {
			t.Errorf("expected label Bearish, got %q", analysis.Label)
		}
	})

	t.Run("out-of-range values are clamped", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"score": 5.0, "label": "Bullish", "confidence": -2.0, "reasoning": "x"}`, nil
			},
		}
		uc := NewInsightUsecase(gen)

		analysis, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if analysis.Score != 1.0 {
			t.Errorf("expected score clamped to 1.0, got %f", analysis.Score)
		}
		if analysis.Confidence != 0.0 {
			t.Errorf("expected confidence clamped to 0.0, got %f", analysis.Confidence)
		}
	})

	t.Run("no JSON object in response", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "I cannot analyze this ticker.", nil
			},
		}
		uc := NewInsightUsecase(gen)

		_, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("malformed JSON in response", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"score": not-a-number}`, nil
			},
		}
		uc := NewInsightUsecase(gen)

		_, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("generator failure is propagated", func(t *testing.T) {
		expectedErr := errors.New("api quota exceeded")
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", expectedErr
			},
		}
		uc := NewInsightUsecase(gen)

		_, err := uc.AnalyzeSentiment(context.Background(), "AAPL", testQuote(), testNews())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected wrapped generator error, got %v", err)
		}
	})
}

func sampleSentiment() *entity.SentimentAnalysis {
	return &entity.SentimentAnalysis{
		Score:      0.6,
		Label:      "Bullish",
		Confidence: 0.8,
		Reasoning:  "Positive earnings.",
	}
}

func TestInsightUsecase_GenerateThesis(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{
					"thesis": "Strong buy on fundamentals.",
					"timeHorizon": "12-18 months",
					"riskLevel": "Medium",
					"keyFactors": ["earnings growth", "product cycle", "services revenue"],
					"priceTarget": 180.0
				}`, nil
			},
		}
		uc := NewInsightUsecase(gen)

		thesis, err := uc.GenerateThesis(context.Background(), "AAPL", testQuote(), sampleSentiment(), testNews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if thesis.Thesis != "Strong buy on fundamentals." {
			t.Errorf("unexpected thesis %q", thesis.Thesis)
		}
		if thesis.RiskLevel != "Medium" {
			t.Errorf("expected risk level Medium, got %q", thesis.RiskLevel)
		}
		if len(thesis.KeyFactors) != 3 {
			t.Errorf("expected 3 key factors, got %d", len(thesis.KeyFactors))
		}
		if thesis.PriceTarget == nil || *thesis.PriceTarget != 180.0 {
			t.Errorf("expected price target 180.0, got %v", thesis.PriceTarget)
		}

		// The prompt carries the sentiment context
		if !strings.Contains(gen.lastPrompt, "Bullish") {
			t.Error("expected prompt to contain the sentiment label")
		}
	})

	t.Run("null price target", func(t *testing.T) {
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return `{"thesis":"Hold.","timeHorizon":"6 months","riskLevel":"High","keyFactors":["volatility"],"priceTarget":null}`, nil
			},
		}
		uc := NewInsightUsecase(gen)

		thesis, err := uc.GenerateThesis(context.Background(), "AAPL", testQuote(), sampleSentiment(), testNews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if thesis.PriceTarget != nil {
			t.Errorf("expected nil price target, got %v", thesis.PriceTarget)
		}
	})

	t.Run("generator failure is propagated", func(t *testing.T) {
		expectedErr := errors.New("model unavailable")
		gen := &mockTextGenerator{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", expectedErr
			},
		}
		uc := NewInsightUsecase(gen)

		_, err := uc.GenerateThesis(context.Background(), "AAPL", testQuote(), sampleSentiment(), testNews())
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected wrapped generator error, got %v", err)
		}
	})
}

func TestDecodeJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, false},
		{"fenced object", "```json\n{\"a\": 1}\n```", false},
		{"prose around object", "Sure: {\"a\": 1} there you go", false},
		{"no braces", "nothing here", true},
		{"only closing brace", "} oops", true},
		{"invalid JSON inside braces", "{not json}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out map[string]any
			err := decodeJSONObject(tt.input, &out)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
