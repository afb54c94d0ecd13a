package payment

import (
	"time"

	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// MonthCheck 合同月份检查结果，ExistingPayments 为覆盖该月的已支付记录
type MonthCheck struct {
	IsPaid           bool             `json:"isPaid"`
	ExistingPayments []models.Payment `json:"existingPayments"`
}

// IsOrderPaid 订单是否已有已支付记录，订单ID匹配服务订单或餐饮订单
func IsOrderPaid(orderID string, payments []models.Payment) bool {
	if orderID == "" {
		return false
	}
	for i := range payments {
		p := &payments[i]
		if !p.IsPaid() {
			continue
		}
		if p.ServiceOrderID == orderID || p.FoodOrderID == orderID {
			return true
		}
	}
	return false
}

// IsContractMonthPaid 合同在 month 所在自然月 [月初, 下月初) 内是否已有已支付记录
func IsContractMonthPaid(contractID string, month time.Time, payments []models.Payment) MonthCheck {
	check := MonthCheck{ExistingPayments: []models.Payment{}}
	if contractID == "" {
		return check
	}
	start, next := utils.MonthRange(month)
	for _, p := range payments {
		if coversMonth(p, contractID, start, next) {
			check.ExistingPayments = append(check.ExistingPayments, p)
		}
	}
	check.IsPaid = len(check.ExistingPayments) > 0
	return check
}

func coversMonth(p models.Payment, contractID string, start, next time.Time) bool {
	return p.ContractID == contractID &&
		p.IsPaid() &&
		p.PaymentMonth.Valid() &&
		utils.WithinHalfOpen(p.PaymentMonth.Time, start, next)
}
