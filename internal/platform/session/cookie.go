// Package session はCookieベースのセッション管理とGin用の認証ミドルウェアを提供します。
package session

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"insight_backend/internal/api"
	"insight_backend/internal/feature/auth/domain/entity"
)

const (
	// CookieName は認証済みユーザーを識別するCookieの名前です。
	CookieName = "user_email"

	// CookieMaxAge はCookieの有効期間（秒）です。
	CookieMaxAge = 7 * 24 * 60 * 60 // 7日

	// コンテキストに認証済みユーザー情報を格納するキー
	ctxUserIDKey = "auth_user_id"
	ctxEmailKey  = "auth_user_email"
)

// UserFinder はCookieの値から認証済みユーザーを解決するインターフェースです。
type UserFinder interface {
	CurrentUser(ctx context.Context, email string) (*entity.User, error)
}

// SetUserCookie は認証成功時のセッションCookieを設定します。
func SetUserCookie(c *gin.Context, email string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, email, CookieMaxAge, "/", "", false, true)
}

// ClearUserCookie はセッションCookieを無効化します。
func ClearUserCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// AuthRequired はセッションCookieを検証するGinミドルウェアを返します。
// Cookieが無い場合・対応するユーザーが存在しない場合は401を返して処理を打ち切ります。
// 検証に成功した場合、ユーザーIDとメールアドレスをコンテキストに格納します。
func AuthRequired(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := c.Cookie(CookieName)
		if err != nil || email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
			return
		}

		c.Set(ctxUserIDKey, user.ID)
		c.Set(ctxEmailKey, user.Email)
		c.Next()
	}
}

// UserID はAuthRequiredを通過したリクエストから認証済みユーザーのIDを取り出します。
func UserID(c *gin.Context) uint {
	return c.GetUint(ctxUserIDKey)
}

// Email はAuthRequiredを通過したリクエストから認証済みユーザーのメールアドレスを取り出します。
func Email(c *gin.Context) string {
	return c.GetString(ctxEmailKey)
}
