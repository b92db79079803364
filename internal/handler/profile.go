package handler

import (
	"net/http"
	"strings"
	"time"

	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const deleteBuffer = 7 * 24 * time.Hour

// UpdateProfileReq 更新基本资料请求
type UpdateProfileReq struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfile 更新当前用户的显示名称
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := util.ValidateName(req.Name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("name", req.Name).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed")
			return
		}
		user.Name = req.Name

		util.Success(c, util.Response{"user": userJSON(user)})
	}
}

// ChangePassword 修改当前用户密码，并让其他会话失效
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}

		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "current password is incorrect")
			return
		}
		if !util.IsStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				"password must be 8-64 characters with upper and lower case letters and a digit")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", hash).Error; err != nil {
				return err
			}
			// 当前会话保留，其余全部吊销
			q := tx.Model(&models.Session{}).Where("user_id = ? AND revoked = ?", user.ID, false)
			if s := currentSession(c); s != nil {
				q = q.Where("id <> ?", s.ID)
			}
			return q.Update("revoked", true).Error
		})
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update password")
			return
		}
		user.PasswordHash = hash

		util.Success(c, util.Response{"message": "password changed, other sessions were signed out"})
	}
}

// DeleteProfile 注销当前账号（7 天缓冲期内重新登录可恢复）
func DeleteProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		if user.DeletedAt != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account is already scheduled for deletion")
			return
		}

		now := time.Now()
		permanentlyAt := now.Add(deleteBuffer)

		err := db.Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
				"deleted_at":            now,
				"delete_permanently_at": permanentlyAt,
			}).Error
			if err != nil {
				return err
			}
			return tx.Model(&models.Session{}).
				Where("user_id = ?", user.ID).
				Update("revoked", true).Error
		})
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account, please retry")
			return
		}

		util.Success(c, util.Response{
			"message":               "account scheduled for deletion",
			"deleted_at":            now,
			"delete_permanently_at": permanentlyAt,
			"tip":                   "log in again within 7 days to restore the account",
		})
	}
}
