package handler

import (
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe 返回当前登录用户信息（需要经过 AuthMiddleware）
func GetMe(isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		data := userJSON(user)
		data["is_admin"] = isAdmin(user.Email)
		data["date_offset_days"] = offsetDays(c)
		util.Success(c, util.Response{"user": data})
	}
}
