package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"budget-ledger/internal/ledger"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

// AuthHandler 负责登录/注册相关接口
type AuthHandler struct {
	DB         *gorm.DB
	Ledger     *ledger.Service
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, svc *ledger.Service, jwtSecret, issuer string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:         db,
		Ledger:     svc,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Email           string `json:"email" binding:"required"`
	Name            string `json:"name" binding:"required,max=100"`
	Password        string `json:"password" binding:"required"`         // 8-64 且强度检查
	ConfirmPassword string `json:"confirm_password" binding:"required"` // 必须和 Password 一致
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if !util.IsStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"password must be 8-64 characters with upper and lower case letters and a digit")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
		return
	}

	// 邮箱不区分大小写唯一
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email already registered")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}
	if _, err := h.Ledger.GetOrCreateAccount(user.ID); err != nil {
		// 账本会在首次访问时再创建
		log.Printf("auth: create account for user %d: %v", user.ID, err)
	}

	util.Success(c, util.Response{
		"message": "registered",
		"user":    userJSON(&user),
	})
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query user")
		}
		return
	}

	now := time.Now()

	// 检查是否被锁定
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account locked, try again later")
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		// 密码错误：递增失败次数，达到 5 次则锁定 10 分钟
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["locked_until"] = now.Add(lockDuration)
			updates["failed_login_attempts"] = 0
		}
		_ = h.DB.Model(&user).Updates(updates).Error
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid email or password")
		return
	}

	updates := map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_ip":         c.ClientIP(),
		"last_login_at":         now,
	}

	// 注销缓冲期内登录则撤销注销
	if user.DeletedAt != nil {
		if user.DeletePermanentlyAt == nil || !now.Before(*user.DeletePermanentlyAt) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account has been deleted")
			return
		}
		updates["deleted_at"] = nil
		updates["delete_permanently_at"] = nil
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
		return
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create session")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, session.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to issue token")
		return
	}

	util.Success(c, util.Response{
		"token":      token,
		"expires_at": session.ExpiresAt,
		"user":       userJSON(&user),
	})
}

// ---------- 退出 ----------

// Logout 撤销当前会话
func (h *AuthHandler) Logout(c *gin.Context) {
	session := currentSession(c)
	if session == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	if err := h.DB.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to log out")
		return
	}
	util.Success(c, util.Response{"message": "logged out"})
}
