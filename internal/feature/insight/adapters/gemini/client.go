// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"insight_backend/internal/feature/insight/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Client はGoogle Gemini APIを使用してテキストを生成します。
type Client struct {
	client *genai.Client
	model  string
}

// ClientがTextGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.TextGenerator = (*Client)(nil)

// NewClient はAPIキーを使用してClientの新しいインスタンスを生成します。
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: DefaultModel}, nil
}

// Generate はプロンプトからテキストを生成します。
func (g *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
