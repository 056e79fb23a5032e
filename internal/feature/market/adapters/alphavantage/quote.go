package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"insight_backend/internal/feature/market/domain/entity"
	"insight_backend/internal/feature/market/usecase"
	"insight_backend/internal/shared/ratelimiter"
)

// QuoteClient はAlpha Vantageから気配値を取得する代替QuoteSource実装です。
// 一次ソースがデータを返さなかった場合にのみ使われます。
type QuoteClient struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// QuoteClientがQuoteSourceを実装していることをコンパイル時に検証します。
var _ usecase.QuoteSource = (*QuoteClient)(nil)

// NewQuoteClient は指定された設定・HTTPクライアント・レートリミッタで
// QuoteClientの新しいインスタンスを生成します。
func NewQuoteClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *QuoteClient {
	return &QuoteClient{cfg: cfg, client: client, limiter: limiter}
}

// globalQuoteBody はGLOBAL_QUOTE応答です。数値はすべて文字列で届きます。
type globalQuoteBody struct {
	GlobalQuote struct {
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// overviewBody はOVERVIEW応答のうち利用するフィールドです。
// NoteはAPI利用上限に達した際にプロバイダーが埋めるシグナルです。
type overviewBody struct {
	Note                 string `json:"Note"`
	MarketCapitalization string `json:"MarketCapitalization"`
	EPS                  string `json:"EPS"`
}

// FetchQuote は指定ティッカーの気配値を取得します。
// 資格情報が未設定の場合はネットワークに出ずに usecase.ErrQuoteNotFound を返します。
// 企業概要（時価総額・EPS）の取得失敗は致命扱いせず、該当項目を0のままにします。
func (a *QuoteClient) FetchQuote(ctx context.Context, ticker string) (*entity.QuoteSnapshot, error) {
	if a.cfg.APIKey == "" {
		return nil, usecase.ErrQuoteNotFound
	}

	a.limiter.WaitIfNeeded()
	var quote globalQuoteBody
	if err := a.getJSON(ctx, "GLOBAL_QUOTE", ticker, &quote); err != nil {
		slog.Warn("alpha vantage quote failed", "ticker", ticker, "error", err)
		return nil, usecase.ErrQuoteNotFound
	}
	g := quote.GlobalQuote
	if g.Price == "" {
		return nil, usecase.ErrQuoteNotFound
	}

	// 概要の失敗やAPI上限シグナル（Note）は握りつぶし、時価総額とEPSは0のままにする
	var marketCap, eps float64
	a.limiter.WaitIfNeeded()
	var overview overviewBody
	if err := a.getJSON(ctx, "OVERVIEW", ticker, &overview); err != nil {
		slog.Warn("alpha vantage overview failed", "ticker", ticker, "error", err)
	} else if overview.Note == "" {
		marketCap = parseFloat(overview.MarketCapitalization)
		eps = parseFloat(overview.EPS)
	}

	return &entity.QuoteSnapshot{
		Price:  parseFloat(g.Price),
		Change: parseFloat(g.Change),
		// 変化率は末尾の"%"を取り除いてからパースする
		ChangePercent: parseFloat(strings.TrimSuffix(strings.TrimSpace(g.ChangePercent), "%")),
		Volume:        parseInt(g.Volume),
		MarketCap:     marketCap,
		EPS:           eps,
		High52Week:    parseFloat(g.High),
		Low52Week:     parseFloat(g.Low),
	}, nil
}

// getJSON は指定function・ティッカーでAPIに問い合わせ、応答をoutにデコードします。
func (a *QuoteClient) getJSON(ctx context.Context, function, ticker string, out any) error {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", ticker)
	q.Set("apikey", a.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", a.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// parseFloat は文字列を数値に変換します。パース不能な値は0扱いです。
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseInt は文字列を整数に変換します。パース不能な値は0扱いです。
func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
