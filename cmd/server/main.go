package main

import (
	"context"
	"log"
	"os"
	"time"

	"insight_backend/internal/app/router"
	authadapters "insight_backend/internal/feature/auth/adapters"
	authhandler "insight_backend/internal/feature/auth/transport/handler"
	authusecase "insight_backend/internal/feature/auth/usecase"
	"insight_backend/internal/feature/insight/adapters/gemini"
	insightusecase "insight_backend/internal/feature/insight/usecase"
	"insight_backend/internal/feature/market/adapters/alphavantage"
	"insight_backend/internal/feature/market/adapters/newsapi"
	"insight_backend/internal/feature/market/adapters/yahoo"
	marketusecase "insight_backend/internal/feature/market/usecase"
	searchadapters "insight_backend/internal/feature/search/adapters"
	searchhandler "insight_backend/internal/feature/search/transport/handler"
	searchusecase "insight_backend/internal/feature/search/usecase"
	"insight_backend/internal/platform/db"
	platformhttp "insight_backend/internal/platform/http"
	"insight_backend/internal/shared/ratelimiter"
)

func main() {
	ctx := context.Background()

	// db
	gormDB := db.OpenDB()

	// 外部APIクライアント
	httpClient := platformhttp.NewHTTPClient(10 * time.Second)

	yahooCfg := yahoo.LoadConfig()
	yahooQuote := yahoo.NewQuoteClient(yahooCfg, httpClient)
	yahooHistory := yahoo.NewHistoryClient(yahooCfg, httpClient)

	// Alpha Vantageの無料枠は5リクエスト/分
	avLimiter := ratelimiter.NewRateLimiter(5, time.Minute)
	avQuote := alphavantage.NewQuoteClient(alphavantage.LoadConfig(), httpClient, avLimiter)

	news := newsapi.NewClient(newsapi.LoadConfig(), httpClient)

	geminiClient, err := gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("failed to initialize gemini client: %v", err)
	}

	// Repository
	userRepo := authadapters.NewUserGorm(gormDB)
	searchRepo := searchadapters.NewSearchGorm(gormDB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo)
	snapshotUC := marketusecase.NewSnapshotUsecase(
		[]marketusecase.QuoteSource{yahooQuote, avQuote},
		yahooHistory,
		news,
	)
	insightUC := insightusecase.NewInsightUsecase(geminiClient)
	searchUC := searchusecase.NewSearchUsecase(snapshotUC, insightUC, searchRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	searchH := searchhandler.NewSearchHandler(searchUC)

	// ルータ生成
	router := router.NewRouter(authH, searchH, authUC)

	// APIキーチェック（開発中の注意喚起）
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set. Analysis requests will fail.")
	}
	if os.Getenv("ALPHA_VANTAGE_API_KEY") == "" {
		log.Println("[WARN] ALPHA_VANTAGE_API_KEY is not set. Running without the fallback quote source.")
	}
	if os.Getenv("NEWS_API_KEY") == "" {
		log.Println("[WARN] NEWS_API_KEY is not set. Running with fallback news links only.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
