package handler

import (
	"net/http"

	"budget-ledger/internal/clock"
	"budget-ledger/internal/ledger"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 时间旅行最多前后十年
const maxOffsetDays = 3650

// AdminHandler 管理员调试接口：时间旅行、重置发薪
type AdminHandler struct {
	DB     *gorm.DB
	Ledger *ledger.Service
}

func NewAdminHandler(db *gorm.DB, svc *ledger.Service) *AdminHandler {
	return &AdminHandler{DB: db, Ledger: svc}
}

func (h *AdminHandler) timeTravelJSON(offset int) util.Response {
	return util.Response{
		"offset_days": offset,
		"today":       h.Ledger.Today(offset).Format(util.DateLayout),
		"real_today":  h.Ledger.Today(0).Format(util.DateLayout),
	}
}

// GetTimeTravel 当前会话的日期偏移
func (h *AdminHandler) GetTimeTravel(c *gin.Context) {
	util.Success(c, h.timeTravelJSON(offsetDays(c)))
}

type timeTravelReq struct {
	Days *int   `json:"days"`
	Date string `json:"date"`
}

// SetTimeTravel 设置偏移：days 直接给天数，date 给目标日期
func (h *AdminHandler) SetTimeTravel(c *gin.Context) {
	var req timeTravelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var offset int
	switch {
	case req.Date != "":
		target, err := util.ParseDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		offset = clock.DaysBetween(h.Ledger.Today(0), target)
	case req.Days != nil:
		offset = *req.Days
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days or date is required")
		return
	}
	if offset > maxOffsetDays || offset < -maxOffsetDays {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "offset must be within 3650 days")
		return
	}

	if !h.saveOffset(c, offset) {
		return
	}
	util.Success(c, h.timeTravelJSON(offset))
}

// ResetTimeTravel 回到真实日期
func (h *AdminHandler) ResetTimeTravel(c *gin.Context) {
	if !h.saveOffset(c, 0) {
		return
	}
	util.Success(c, h.timeTravelJSON(0))
}

func (h *AdminHandler) saveOffset(c *gin.Context, offset int) bool {
	session := currentSession(c)
	if session == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return false
	}
	if err := h.DB.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Update("date_offset_days", offset).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save offset")
		return false
	}
	session.DateOffsetDays = offset
	return true
}

// ResetPayday 清除上次发薪记录，下一个发薪日会重新入账
func (h *AdminHandler) ResetPayday(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Ledger.ResetPayday(user.ID); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "payday reset"})
}
