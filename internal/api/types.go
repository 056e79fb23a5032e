// Package api はHTTP APIのリクエスト/レスポンス型を定義します。
package api

// SignupRequest は /signup のリクエストボディです。
// Ginのbindingタグで入力チェック（必須・メール形式・パスワード長）を行います。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest は /login のリクエストボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SearchRequest は /search のリクエストボディです。
type SearchRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// ErrorResponse はエラー応答の共通形式です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功メッセージ応答の共通形式です。
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse は認証済みユーザーの情報を表します。
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// QuoteResponse は銘柄の現在値スナップショットを表します。
type QuoteResponse struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"marketCap"`
	EPS           float64 `json:"eps"`
	High52Week    float64 `json:"high52Week"`
	Low52Week     float64 `json:"low52Week"`
}

// PriceBarResponse は日足1本分のOHLCVデータを表します。
type PriceBarResponse struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ArticleResponse はニュース記事1件を表します。
type ArticleResponse struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// SentimentResponse はAIによるセンチメント判定を表します。
type SentimentResponse struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ThesisResponse はAIが生成した投資テーゼを表します。
type ThesisResponse struct {
	Thesis      string   `json:"thesis"`
	TimeHorizon string   `json:"timeHorizon"`
	RiskLevel   string   `json:"riskLevel"`
	KeyFactors  []string `json:"keyFactors"`
	PriceTarget *float64 `json:"priceTarget"`
}

// SearchResponse はティッカー検索1回分の結果全体を表します。
type SearchResponse struct {
	Ticker      string             `json:"ticker"`
	CompanyName string             `json:"companyName"`
	Quote       QuoteResponse      `json:"quote"`
	Sentiment   SentimentResponse  `json:"sentiment"`
	Thesis      ThesisResponse     `json:"thesis"`
	PriceData   []PriceBarResponse `json:"priceData"`
	News        []ArticleResponse  `json:"news"`
}

// SearchSummaryResponse は検索履歴一覧の1行を表します。
type SearchSummaryResponse struct {
	ID             uint    `json:"id"`
	Ticker         string  `json:"ticker"`
	SentimentScore float64 `json:"sentimentScore"`
	SentimentLabel string  `json:"sentimentLabel"`
	Thesis         string  `json:"thesis"`
	TimeHorizon    string  `json:"timeHorizon"`
	RiskLevel      string  `json:"riskLevel"`
	CreatedAt      string  `json:"createdAt"`
}
