package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/market/usecase"
)

const (
	// newsDomains は検索対象を金融系メディアに限定するホワイトリストです。
	newsDomains = "reuters.com,bloomberg.com,marketwatch.com,cnbc.com,finance.yahoo.com,wsj.com,ft.com,seekingalpha.com"

	// newsWindow は検索対象とする記事の公開期間です。
	newsWindow = 7 * 24 * time.Hour

	// maxArticles は返却する記事数の上限です。
	maxArticles = 10

	// pageSize はプロバイダーに要求する記事数です（フィルタ前）。
	pageSize = 20
)

// Client はNewsAPIからティッカー関連記事を取得するNewsSource実装です。
// 資格情報が無い場合・プロバイダーが失敗した場合・有用な記事が0件の場合は、
// 既知の金融サイトへのディープリンク6件に必ずフォールバックします。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがNewsSourceを実装していることをコンパイル時に検証します。
var _ usecase.NewsSource = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// newsBody は/v2/everything応答のうち利用するフィールドです。
type newsBody struct {
	Articles []struct {
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		Description string    `json:"description"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchNews は指定ティッカーの最近のニュース記事を返します。空にはなりません。
func (n *Client) FetchNews(ctx context.Context, ticker string) []entity.NewsArticle {
	if n.cfg.APIKey == "" {
		slog.Info("news api key not set, using fallback links", "ticker", ticker)
		return fallbackLinks(ticker, time.Now())
	}

	articles, err := n.fetchProvider(ctx, ticker)
	if err != nil {
		slog.Warn("news provider failed, using fallback links", "ticker", ticker, "error", err)
		return fallbackLinks(ticker, time.Now())
	}
	if len(articles) == 0 {
		slog.Info("news provider returned no usable articles, using fallback links", "ticker", ticker)
		return fallbackLinks(ticker, time.Now())
	}
	return articles
}

// fetchProvider はNewsAPIに問い合わせ、フィルタ済みの記事を返します。
func (n *Client) fetchProvider(ctx context.Context, ticker string) ([]entity.NewsArticle, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s stock OR %q earnings OR %q financial", ticker, ticker, ticker))
	q.Set("domains", newsDomains)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	q.Set("language", "en")
	q.Set("from", time.Now().Add(-newsWindow).Format("2006-01-02"))
	q.Set("apiKey", n.cfg.APIKey)

	u := fmt.Sprintf("%s/v2/everything?%s", n.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("newsapi http %d", res.StatusCode)
	}

	var body newsBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make([]entity.NewsArticle, 0, maxArticles)
	for _, a := range body.Articles {
		if !usable(a.Title, a.URL, a.Description) {
			continue
		}
		out = append(out, entity.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
			ImageURL:    a.URLToImage,
		})
		if len(out) == maxArticles {
			break
		}
	}
	return out, nil
}

// usable はタイトル・URLが空の記事と、プロバイダー側で削除済みの記事を除外します。
func usable(title, articleURL, description string) bool {
	if title == "" || articleURL == "" {
		return false
	}
	if strings.Contains(strings.ToLower(title), "removed") {
		return false
	}
	if description == "" || description == "[Removed]" {
		return false
	}
	return true
}

// fallbackLinks は既知の金融サイトのティッカーページへのディープリンク6件を返します。
// 公開時刻は先頭がnow、残りがnow-1hの擬似的な値です。
func fallbackLinks(ticker string, now time.Time) []entity.NewsArticle {
	hourAgo := now.Add(-time.Hour)

	return []entity.NewsArticle{
		{
			Title:       fmt.Sprintf("%s Stock Quote & Financial Data - Yahoo Finance", ticker),
			URL:         fmt.Sprintf("https://finance.yahoo.com/quote/%s/", ticker),
			Source:      "Yahoo Finance",
			PublishedAt: now,
			Description: fmt.Sprintf("Real-time stock quote, charts, financials, and news for %s. View detailed financial data including earnings, dividends, and analyst ratings.", ticker),
		},
		{
			Title:       fmt.Sprintf("%s Stock Research & Market Analysis - MarketWatch", ticker),
			URL:         fmt.Sprintf("https://www.marketwatch.com/investing/stock/%s", strings.ToLower(ticker)),
			Source:      "MarketWatch",
			PublishedAt: hourAgo,
			Description: fmt.Sprintf("Comprehensive stock analysis, earnings data, and market research for %s. Get the latest news, analyst opinions, and price targets.", ticker),
		},
		{
			Title:       fmt.Sprintf("%s Company Profile & Latest News - Reuters", ticker),
			URL:         fmt.Sprintf("https://www.reuters.com/markets/companies/%s/", ticker),
			Source:      "Reuters",
			PublishedAt: hourAgo,
			Description: fmt.Sprintf("Latest financial news, earnings reports, and market updates for %s. Professional analysis and breaking news coverage.", ticker),
		},
		{
			Title:       fmt.Sprintf("%s Stock Analysis & Analyst Ratings - CNBC", ticker),
			URL:         fmt.Sprintf("https://www.cnbc.com/quotes/%s", ticker),
			Source:      "CNBC",
			PublishedAt: hourAgo,
			Description: fmt.Sprintf("Professional analyst ratings, price targets, and investment recommendations for %s. Real-time market data and expert analysis.", ticker),
		},
		{
			Title:       fmt.Sprintf("%s Financial Overview & Market Data - Bloomberg", ticker),
			URL:         fmt.Sprintf("https://www.bloomberg.com/quote/%s:US", ticker),
			Source:      "Bloomberg",
			PublishedAt: hourAgo,
			Description: fmt.Sprintf("Detailed company profile, financial statements, and institutional-grade market data for %s. Professional investment research and analysis.", ticker),
		},
		{
			Title:       fmt.Sprintf("%s Stock Discussion & Analysis - Seeking Alpha", ticker),
			URL:         fmt.Sprintf("https://seekingalpha.com/symbol/%s", ticker),
			Source:      "Seeking Alpha",
			PublishedAt: hourAgo,
			Description: fmt.Sprintf("In-depth investment analysis, earnings coverage, and community discussions for %s. Expert opinions and detailed financial modeling.", ticker),
		},
	}
}
