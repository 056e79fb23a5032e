package router

import (
	authhandler "insight_backend/internal/feature/auth/transport/handler"
	searchhandler "insight_backend/internal/feature/search/transport/handler"
	"insight_backend/internal/platform/http/handler"
	"insight_backend/internal/platform/session"

	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *authhandler.AuthHandler, search *searchhandler.SearchHandler,
	users session.UserFinder) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（セッションCookie発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// session.AuthRequired ミドルウェアを適用
	// → リクエストにセッションCookieが必要になる
	auth.Use(session.AuthRequired(users))
	{
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
		auth.POST("/search", search.SearchHandler)
		auth.GET("/searches", search.HistoryHandler)
		auth.GET("/searches/:id/chart", search.ChartHandler)
	}

	return r
}
