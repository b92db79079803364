package router

import (
	"budget-ledger/internal/config"
	"budget-ledger/internal/handler"
	"budget-ledger/internal/ledger"
	"budget-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the JSON API onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *ledger.Service) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	encKey := cfg.Security.EncryptionKey

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, svc, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db, cfg.IsAdmin),
		middleware.AuditMiddleware(db, encKey),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe(cfg.IsAdmin))

	budgetHandler := handler.NewBudgetHandler(svc)
	protected.GET("/dashboard", budgetHandler.Dashboard)
	protected.GET("/financials", budgetHandler.GetFinancials)
	protected.PUT("/financials", budgetHandler.PutFinancials)
	protected.DELETE("/account", budgetHandler.DeleteLedger)
	protected.POST("/spendings", budgetHandler.CreateSpending)
	protected.POST("/deposits", budgetHandler.CreateDeposit)
	protected.GET("/goals/progress", budgetHandler.GoalProgress)
	protected.GET("/goals/projection", budgetHandler.Projection)
	protected.POST("/goals/:id/save", budgetHandler.SaveToGoal)
	protected.POST("/goals/:id/purchase", budgetHandler.PurchaseGoal)
	protected.GET("/max-spend", budgetHandler.MaxSpend)
	protected.GET("/max-deposit", budgetHandler.MaxDeposit)

	adminHandler := handler.NewAdminHandler(db, svc)
	admin := protected.Group("/admin", middleware.AdminOnly(cfg.IsAdmin))
	admin.GET("/time-travel", adminHandler.GetTimeTravel)
	admin.PUT("/time-travel", adminHandler.SetTimeTravel)
	admin.DELETE("/time-travel", adminHandler.ResetTimeTravel)
	admin.POST("/reset-payday", adminHandler.ResetPayday)

	backupHandler := handler.NewBackupHandler(db, svc, encKey, cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.POST("/profile/delete", handler.DeleteProfile(db))

	logHandler := handler.NewLogHandler(db, encKey)
	protected.GET("/logs", logHandler.ListLogs)
	protected.GET("/history", logHandler.ListHistory)

	exportHandler := handler.NewExportHandler(svc)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
