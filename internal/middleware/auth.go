package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// context keys shared with handlers
const (
	CurrentUserKey    = "currentUser"
	CurrentSessionKey = "currentSession"
)

// AuthMiddleware 校验 JWT 和对应的会话，并在 context 里放入当前用户和会话。
// 时间偏移只对管理员生效，失去管理员身份后按真实日期处理。
func AuthMiddleware(jwtSecret string, db *gorm.DB, isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		// 会话必须存在、未撤销、未过期（logout 会撤销）
		var session models.Session
		if err := db.Where("id = ? AND user_id = ?", claims.SessionID(), claims.UserID).
			First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load session")
			}
			c.Abort()
			return
		}
		if session.Revoked || time.Now().After(session.ExpiresAt) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		if session.DateOffsetDays != 0 && !isAdmin(user.Email) {
			session.DateOffsetDays = 0
		}

		c.Set(CurrentUserKey, &user)
		c.Set(CurrentSessionKey, &session)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2) URL 查询参数 ?token=xxx（用于下载等无法自定义 Header 的场景）
	if token := c.Query("token"); token != "" {
		return token
	}

	// 3) Cookie bl_token
	if cookie, err := c.Cookie("bl_token"); err == nil {
		return cookie
	}
	return ""
}

// AdminOnly 只允许配置中的管理员邮箱访问，需放在 AuthMiddleware 之后。
func AdminOnly(isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(CurrentUserKey)
		user, ok := v.(*models.User)
		if !ok || user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}
		if !isAdmin(user.Email) {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
