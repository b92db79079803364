package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"budget-ledger/internal/budget"
	"budget-ledger/internal/ledger"
	"budget-ledger/internal/middleware"
	"budget-ledger/internal/models"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// currentUser 取出 AuthMiddleware 放入的用户，没有时直接返回 401
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return user, true
}

func currentSession(c *gin.Context) *models.Session {
	v, _ := c.Get(middleware.CurrentSessionKey)
	s, _ := v.(*models.Session)
	return s
}

// offsetDays 是当前会话的时间偏移（管理员时间旅行）
func offsetDays(c *gin.Context) int {
	if s := currentSession(c); s != nil {
		return s.DateOffsetDays
	}
	return 0
}

// today 当前请求的有效日期
func today(c *gin.Context, svc *ledger.Service) time.Time {
	return svc.Today(offsetDays(c))
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// checkAmountFormat 拦截过大或超过两位小数的金额；非正数交给业务层报 InvalidAmount
func checkAmountFormat(c *gin.Context, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return true
	}
	if err := util.ValidateAmount(amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidAmount, err.Error())
		return false
	}
	return true
}

// respondError 把业务错误映射为 HTTP 状态码和业务码
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, util.CodeServerErr
	switch {
	case errors.Is(err, budget.ErrInsufficientFunds):
		status, code = http.StatusBadRequest, util.CodeInsufficientFunds
	case errors.Is(err, budget.ErrInvalidAmount):
		status, code = http.StatusBadRequest, util.CodeInvalidAmount
	case errors.Is(err, budget.ErrGoalNotFound):
		status, code = http.StatusNotFound, util.CodeGoalNotFound
	case errors.Is(err, budget.ErrGoalNotFunded):
		status, code = http.StatusBadRequest, util.CodeGoalNotFunded
	case errors.Is(err, budget.ErrGoalPurchased):
		status, code = http.StatusConflict, util.CodeGoalPurchased
	case errors.Is(err, budget.ErrAccountNotFound):
		status, code = http.StatusNotFound, util.CodeNotFound
	case errors.Is(err, budget.ErrProjectionUnreachable):
		status, code = http.StatusUnprocessableEntity, util.CodeUnreachable
	case errors.Is(err, ledger.ErrInvalidInput):
		status, code = http.StatusBadRequest, util.CodeInvalidParam
	case errors.Is(err, ledger.ErrStaleFinancials):
		status, code = http.StatusConflict, util.CodeConflict
	}

	if code == util.CodeServerErr {
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		util.Error(c, status, code, "internal error")
		return
	}

	var amountErr *budget.AmountError
	if errors.As(err, &amountErr) {
		util.ErrorWith(c, status, code, err.Error(), util.Response{
			"requested": amountErr.Requested.StringFixed(2),
			"available": amountErr.Available.StringFixed(2),
		})
		return
	}
	util.Error(c, status, code, err.Error())
}
