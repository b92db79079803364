package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"budget-ledger/internal/ledger"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler 负责备份相关接口，备份内容是整个账本的快照
type BackupHandler struct {
	DB         *gorm.DB
	Ledger     *ledger.Service
	EncryptKey string
	BackupDir  string
}

// NewBackupHandler 构造函数
func NewBackupHandler(db *gorm.DB, svc *ledger.Service, encryptKey, backupDir string) *BackupHandler {
	return &BackupHandler{
		DB:         db,
		Ledger:     svc,
		EncryptKey: encryptKey,
		BackupDir:  backupDir,
	}
}

func backupJSON(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup 生成当前用户的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	snap, err := h.Ledger.Snapshot(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encode backup")
		return
	}

	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encrypt backup")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create backup directory")
		return
	}

	// 文件名：用户 id + uuid
	fileName := fmt.Sprintf("backup-%d-%s.bin", user.ID, uuid.NewString())
	filePath := filepath.Join(h.BackupDir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write backup file")
		return
	}

	backup := models.Backup{
		UserID:   user.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save backup record")
		return
	}

	util.Success(c, util.Response{"backup": backupJSON(&backup)})
}

// ListBackups 列出当前用户已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var list []models.Backup
	if err := h.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupJSON(&list[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// findBackup 按 id 查当前用户的备份，找不到时已写好响应
func (h *BackupHandler) findBackup(c *gin.Context, userID uint) (*models.Backup, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var backup models.Backup
	err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&backup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		return nil, false
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backup")
		return nil, false
	}
	return &backup, true
}

// DownloadBackup 下载指定备份文件（仍是加密内容）
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup 删除备份记录及对应文件
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user.ID)
	if !ok {
		return
	}

	// 先删文件，再删记录
	if err := os.Remove(backup.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("backup: remove %s: %v", backup.FilePath, err)
	}
	if err := h.DB.Delete(&models.Backup{}, backup.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete backup record")
		return
	}
	util.Success(c, util.Response{"message": "backup deleted"})
}

// RestoreBackup 用备份快照替换当前账本
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user.ID)
	if !ok {
		return
	}

	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to read backup file")
		return
	}
	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to decrypt backup file")
		return
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to parse backup data")
		return
	}

	if err := h.Ledger.Restore(user.ID, &snap); err != nil {
		respondError(c, err)
		return
	}

	acc := &snap.Account
	util.Success(c, util.Response{
		"message":         "backup restored",
		"balance":         acc.CurrentBalance,
		"goals_count":     len(acc.SavingsGoals),
		"spendings_count": len(acc.Spendings),
	})
}
