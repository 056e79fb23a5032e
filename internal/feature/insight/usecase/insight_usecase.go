// Package usecase は市場データとニュースからAIによる分析を生成するビジネスロジックを提供します。
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"insight_backend/internal/feature/insight/domain/entity"
	mentity "insight_backend/internal/feature/market/domain/entity"
)

// ErrInvalidResponse はモデルの応答からJSONオブジェクトを抽出できなかった場合のエラーです。
var ErrInvalidResponse = errors.New("invalid model response format")

// TextGenerator はプロンプトからテキストを生成するインターフェースです。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsightUsecase はセンチメント分析と投資テーゼ生成のユースケースです。
type InsightUsecase struct {
	generator TextGenerator
}

// NewInsightUsecase は新しいInsightUsecaseのインスタンスを生成します。
func NewInsightUsecase(generator TextGenerator) *InsightUsecase {
	return &InsightUsecase{generator: generator}
}

// AnalyzeSentiment は気配値とニュース見出しに基づくセンチメント分析を生成します。
// スコアは[-1,1]、確信度は[0,1]にクランプされます。生成失敗は致命エラーです。
func (u *InsightUsecase) AnalyzeSentiment(ctx context.Context, ticker string, quote *mentity.QuoteSnapshot, news []mentity.NewsArticle) (*entity.SentimentAnalysis, error) {
	prompt := buildSentimentPrompt(ticker, quote, news)

	text, err := u.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sentiment analysis: %w", err)
	}

	var analysis entity.SentimentAnalysis
	if err := decodeJSONObject(text, &analysis); err != nil {
		return nil, err
	}
	analysis.Score = clamp(analysis.Score, -1, 1)
	analysis.Confidence = clamp(analysis.Confidence, 0, 1)
	return &analysis, nil
}

// GenerateThesis はセンチメント分析の結果を踏まえた投資テーゼを生成します。
func (u *InsightUsecase) GenerateThesis(ctx context.Context, ticker string, quote *mentity.QuoteSnapshot, sentiment *entity.SentimentAnalysis, news []mentity.NewsArticle) (*entity.InvestmentThesis, error) {
	prompt := buildThesisPrompt(ticker, quote, sentiment, news)

	text, err := u.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate investment thesis: %w", err)
	}

	var thesis entity.InvestmentThesis
	if err := decodeJSONObject(text, &thesis); err != nil {
		return nil, err
	}
	return &thesis, nil
}

// buildSentimentPrompt はセンチメント分析用のプロンプトを組み立てます。
func buildSentimentPrompt(ticker string, quote *mentity.QuoteSnapshot, news []mentity.NewsArticle) string {
	var headlines strings.Builder
	for _, a := range news {
		fmt.Fprintf(&headlines, "- %s (%s)\n", a.Title, a.Source)
	}

	return fmt.Sprintf(`Analyze the sentiment for stock ticker %s based on REAL market data:

REAL Stock Data:
- Current Price: $%s
- Change: %s (%s%%)
- Volume: %s
- Market Cap: $%s
- 52-Week High: $%s
- 52-Week Low: $%s

REAL Recent News Headlines:
%s
Based on this REAL market data, provide a sentiment analysis with:
1. A sentiment score from -1 (very bearish) to 1 (very bullish)
2. A label: Bullish, Bearish, or Neutral
3. Confidence level (0-1)
4. Brief reasoning based on the actual data provided

Respond in JSON format:
{
  "score": number,
  "label": "Bullish|Bearish|Neutral",
  "confidence": number,
  "reasoning": "string"
}`,
		ticker,
		numOrNA(quote.Price),
		numOrNA(quote.Change),
		numOrNA(quote.ChangePercent),
		intOrNA(quote.Volume),
		numOrNA(quote.MarketCap),
		numOrNA(quote.High52Week),
		numOrNA(quote.Low52Week),
		headlines.String(),
	)
}

// buildThesisPrompt は投資テーゼ生成用のプロンプトを組み立てます。
func buildThesisPrompt(ticker string, quote *mentity.QuoteSnapshot, sentiment *entity.SentimentAnalysis, news []mentity.NewsArticle) string {
	var context strings.Builder
	for _, a := range news {
		fmt.Fprintf(&context, "- %s: %s (%s)\n", a.Title, a.Description, a.Source)
	}

	return fmt.Sprintf(`Generate a comprehensive investment thesis for %s based on REAL market data:

REAL Financial Metrics:
- Current Price: $%s
- Market Cap: $%s
- EPS: $%s
- 52-Week Range: $%s - $%s
- Daily Volume: %s

REAL Sentiment Analysis:
- Score: %g
- Label: %s
- Reasoning: %s

REAL News Context:
%s
Based on this REAL market data, provide an investment thesis including:
1. Overall investment recommendation based on actual data
2. Recommended time horizon
3. Risk level assessment
4. 3-4 key factors supporting the thesis
5. Potential price target based on current metrics

Respond in JSON format:
{
  "thesis": "string",
  "timeHorizon": "string",
  "riskLevel": "Low|Medium|High",
  "keyFactors": ["factor1", "factor2", "factor3"],
  "priceTarget": number or null
}`,
		ticker,
		numOrNA(quote.Price),
		numOrNA(quote.MarketCap),
		numOrNA(quote.EPS),
		numOrNA(quote.Low52Week),
		numOrNA(quote.High52Week),
		intOrNA(quote.Volume),
		sentiment.Score,
		sentiment.Label,
		sentiment.Reasoning,
		context.String(),
	)
}

// decodeJSONObject はモデル応答のテキストから最初の「{」と最後の「}」で囲まれた
// 範囲を切り出してデコードします。コードフェンスや前置きの説明文を許容するためです。
func decodeJSONObject(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ErrInvalidResponse
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// clamp はvを[lo,hi]の範囲に収めます。
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// numOrNA は値を文字列化します。0は欠損値として"N/A"を返します。
func numOrNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", v)
}

// intOrNA は整数値を文字列化します。0は欠損値として"N/A"を返します。
func intOrNA(v int64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", v)
}
