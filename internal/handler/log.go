package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler 负责日志查询接口
type LogHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewLogHandler(db *gorm.DB, encryptKey string) *LogHandler {
	return &LogHandler{
		DB:         db,
		EncryptKey: encryptKey,
	}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// decoded 是解密后的一条日志
type decoded struct {
	log    *models.AuditLog
	path   string
	action string
}

func pageParams(c *gin.Context, defSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	if size <= 0 || size > 100 {
		size = defSize
	}
	return page, size
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// loadLogs 查出当前用户的日志并解密；path/action 是密文，关键字只能解密后再过滤
func (h *LogHandler) loadLogs(userID uint, start, end *time.Time) ([]decoded, error) {
	q := h.DB.Where("user_id = ?", userID)
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at < ?", *end)
	}
	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	out := make([]decoded, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		out = append(out, decoded{
			log:    l,
			path:   util.DecryptField(h.EncryptKey, l.PathEnc),
			action: util.DecryptField(h.EncryptKey, l.ActionEnc),
		})
	}
	return out, nil
}

// ListLogs 列出当前用户的操作日志（分页 + 时间 + 关键字）
func (h *LogHandler) ListLogs(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 20)

	// 时间筛选：start / end（YYYY-MM-DD，end 当天包含在内）
	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return
		}
		start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return
		}
		t = t.AddDate(0, 0, 1)
		end = &t
	}
	keyword := strings.ToLower(strings.TrimSpace(c.Query("q")))

	all, err := h.loadLogs(user.ID, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query logs")
		return
	}

	matched := make([]logResp, 0, len(all))
	for _, d := range all {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(d.path), keyword) &&
			!strings.Contains(strings.ToLower(d.action), keyword) {
			continue
		}
		matched = append(matched, logResp{
			ID:        d.log.ID,
			Action:    d.action,
			Path:      d.path,
			Method:    d.log.Method,
			Status:    d.log.Status,
			IP:        d.log.IP,
			UserAgent: d.log.UserAgent,
			CreatedAt: d.log.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": paginate(matched, page, size),
		"total": len(matched),
		"page":  page,
		"size":  size,
	})
}

// ledgerOperation 判断一条日志是不是成功的账本改动，返回操作名
func ledgerOperation(method, path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case method == http.MethodPost && path == "/api/spendings":
		return "spend"
	case method == http.MethodPost && path == "/api/deposits":
		return "deposit"
	case method == http.MethodPost && len(parts) == 4 && parts[1] == "goals" && parts[3] == "save":
		return "save to goal"
	case method == http.MethodPost && len(parts) == 4 && parts[1] == "goals" && parts[3] == "purchase":
		return "purchase goal"
	case method == http.MethodPut && path == "/api/financials":
		return "update financials"
	case method == http.MethodDelete && path == "/api/account":
		return "delete account data"
	case method == http.MethodPost && len(parts) == 4 && parts[1] == "backups" && parts[3] == "restore":
		return "restore backup"
	}
	return ""
}

type historyResp struct {
	ID        uint      `json:"id"`
	Operation string    `json:"operation"`
	Item      string    `json:"item,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	GoalID    string    `json:"goal_id,omitempty"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

// ListHistory 账本改动历史：只取成功的支出、存钱、购买、资料同步等请求
func (h *LogHandler) ListHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 50)

	all, err := h.loadLogs(user.ID, nil, nil)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query logs")
		return
	}

	items := make([]historyResp, 0, len(all))
	for _, d := range all {
		if d.log.Status < 200 || d.log.Status >= 300 {
			continue
		}
		op := ledgerOperation(d.log.Method, d.path)
		if op == "" {
			continue
		}
		item := historyResp{
			ID:        d.log.ID,
			Operation: op,
			IP:        d.log.IP,
			CreatedAt: d.log.CreatedAt,
		}
		if op == "save to goal" || op == "purchase goal" {
			parts := strings.Split(strings.Trim(d.path, "/"), "/")
			item.GoalID = parts[2]
		}

		// action 格式："METHOD path {json}"，取出请求体里的字段
		if i, j := strings.Index(d.action, "{"), strings.LastIndex(d.action, "}"); i >= 0 && j > i {
			var body map[string]interface{}
			if json.Unmarshal([]byte(d.action[i:j+1]), &body) == nil {
				if v, ok := body["item"].(string); ok {
					item.Item = v
				}
				switch v := body["amount"].(type) {
				case string:
					item.Amount = v
				case float64:
					item.Amount = strconv.FormatFloat(v, 'f', 2, 64)
				}
				if v, ok := body["goal_id"].(float64); ok {
					item.GoalID = strconv.FormatFloat(v, 'f', 0, 64)
				}
			}
		}
		items = append(items, item)
	}

	util.Success(c, util.Response{
		"items": paginate(items, page, size),
		"total": len(items),
		"page":  page,
		"size":  size,
	})
}
