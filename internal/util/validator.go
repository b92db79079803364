package util

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// 单笔金额上限 1 千万
var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount 验证金额（必须为正数、最多两位小数且不超过上限）
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	return checkAmount(amount)
}

// ValidateNonNegative 验证可以为 0 的金额（余额、资产等）
func ValidateNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative, got %s", amount)
	}
	return checkAmount(amount)
}

func checkAmount(amount decimal.Decimal) error {
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("amount has more than 2 decimal places, got %s", amount)
	}
	return nil
}

// ValidateDate 验证日期格式（必须为 YYYY-MM-DD）
func ValidateDate(dateStr string) error {
	_, err := ParseDate(dateStr)
	return err
}

// ParseDate 解析 YYYY-MM-DD，返回 UTC 零点
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateName 验证名称（支出项、目标、资产等），不能为空且不超过 100 字符
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("name too long, max 100 characters")
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if len(email) > 120 {
		return fmt.Errorf("email too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
