package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"

	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxAuditBody = 2000

// AuditMiddleware 记录已登录用户的写请求，path 和 action 加密存储。
func AuditMiddleware(db *gorm.DB, encryptKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只读请求不记
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		var userID uint
		if v, ok := c.Get(CurrentUserKey); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}

		// 读取请求体后放回去，handler 还要用
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// 只记录登录用户的操作
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		// 密码相关请求不记录请求体
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody && !strings.Contains(path, "password") {
			action += " " + string(bodyBytes)
		}

		encPath, _ := util.EncryptField(encryptKey, path)
		encAction, _ := util.EncryptField(encryptKey, action)

		entry := models.AuditLog{
			UserID:    &userID,
			PathEnc:   encPath,
			Method:    c.Request.Method,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Printf("audit: write log for user %d: %v", userID, err)
		}
	}
}
