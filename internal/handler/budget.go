package handler

import (
	"net/http"

	"budget-ledger/internal/ledger"
	"budget-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 负责账本相关接口：看板、资料同步、支出、存钱和目标
type BudgetHandler struct {
	Ledger *ledger.Service
}

func NewBudgetHandler(svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{Ledger: svc}
}

// Dashboard 先结算工资和周期支出，再返回看板数据
func (h *BudgetHandler) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	d, err := h.Ledger.Dashboard(user.ID, today(c, h.Ledger), offsetDays(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"dashboard": d})
}

// GetFinancials 返回可编辑的账本资料（表单预填）
func (h *BudgetHandler) GetFinancials(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	f, err := h.Ledger.Financials(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"financials": f})
}

// PutFinancials 按列表差异同步账本资料
func (h *BudgetHandler) PutFinancials(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var f ledger.Financials
	if err := c.ShouldBindJSON(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := h.Ledger.SyncFinancials(user.ID, &f, today(c, h.Ledger)); err != nil {
		respondError(c, err)
		return
	}
	saved, err := h.Ledger.Financials(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":    "financial information saved",
		"financials": saved,
	})
}

// DeleteLedger 清空账本，下次访问时重新创建空账本
func (h *BudgetHandler) DeleteLedger(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Ledger.DeleteAccount(user.ID); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account data deleted"})
}

type spendReq struct {
	Item   string          `json:"item" binding:"max=100"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSpending 记录一笔个人支出
func (h *BudgetHandler) CreateSpending(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req spendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if !checkAmountFormat(c, req.Amount) {
		return
	}

	sp, err := h.Ledger.MakePersonalSpend(user.ID, req.Item, req.Amount, today(c, h.Ledger))
	if err != nil {
		respondError(c, err)
		return
	}
	balance, err := h.Ledger.MaxSpend(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Spent $" + sp.Amount.StringFixed(2) + " on " + sp.Item,
		"spending": gin.H{
			"id":     sp.ID,
			"item":   sp.Item,
			"amount": sp.Amount,
			"date":   sp.Date.Format(util.DateLayout),
		},
		"balance": balance,
	})
}

type depositReq struct {
	GoalID uint            `json:"goal_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateDeposit 从余额存入储蓄目标
func (h *BudgetHandler) CreateDeposit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req depositReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if !checkAmountFormat(c, req.Amount) {
		return
	}

	res, err := h.Ledger.CreateDeposit(user.ID, req.GoalID, req.Amount, today(c, h.Ledger))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"deposit": res, "message": res.Message})
}

type amountReq struct {
	Amount decimal.Decimal `json:"amount"`
}

// SaveToGoal 只允许存入高于最低余额目标的部分
func (h *BudgetHandler) SaveToGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req amountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if !checkAmountFormat(c, req.Amount) {
		return
	}

	res, err := h.Ledger.SaveToGoal(user.ID, goalID, req.Amount, today(c, h.Ledger))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"deposit": res, "message": res.Message})
}

// PurchaseGoal 手动把已攒够的目标标记为已购买
func (h *BudgetHandler) PurchaseGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	goalID, ok := paramID(c, "id")
	if !ok {
		return
	}

	g, err := h.Ledger.MarkGoalPurchased(user.ID, goalID, today(c, h.Ledger))
	if err != nil {
		respondError(c, err)
		return
	}
	goal := gin.H{
		"id":        g.ID,
		"item":      g.Item,
		"cost":      g.Cost,
		"purchased": g.Purchased,
	}
	if g.PurchaseDate != nil {
		goal["purchase_date"] = g.PurchaseDate.Format(util.DateLayout)
	}
	util.Success(c, util.Response{"message": "Purchased " + g.Item, "goal": goal})
}

// GoalProgress 所有目标的进度
func (h *BudgetHandler) GoalProgress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	report, err := h.Ledger.Progress(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"goals": report})
}

// Projection 按当前每周结余估算攒够所有目标需要的周数
func (h *BudgetHandler) Projection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	weeks, err := h.Ledger.Projection(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"weeks": weeks})
}

// MaxSpend 单笔支出上限
func (h *BudgetHandler) MaxSpend(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	balance, err := h.Ledger.MaxSpend(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"max": balance})
}

// MaxDeposit 存钱上限和安全可存金额
func (h *BudgetHandler) MaxDeposit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	balance, safe, err := h.Ledger.MaxDeposit(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"max": balance, "safe": safe})
}
