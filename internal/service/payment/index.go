package payment

import (
	"time"

	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// Index 已支付记录索引，每次拉取后构建一次，供重复检查复用
// 合同按 UTC 月份分桶，查询月份不在 UTC 时退回到合同内按范围过滤
type Index struct {
	byOrder         map[string][]models.Payment
	byContract      map[string][]models.Payment
	byContractMonth map[string][]models.Payment
}

// NewIndex 根据支付列表构建索引，只收录已支付记录
func NewIndex(payments []models.Payment) *Index {
	idx := &Index{
		byOrder:         map[string][]models.Payment{},
		byContract:      map[string][]models.Payment{},
		byContractMonth: map[string][]models.Payment{},
	}
	for _, p := range payments {
		if !p.IsPaid() {
			continue
		}
		if p.ServiceOrderID != "" {
			idx.byOrder[p.ServiceOrderID] = append(idx.byOrder[p.ServiceOrderID], p)
		}
		if p.FoodOrderID != "" && p.FoodOrderID != p.ServiceOrderID {
			idx.byOrder[p.FoodOrderID] = append(idx.byOrder[p.FoodOrderID], p)
		}
		if p.ContractID != "" && p.PaymentMonth.Valid() {
			idx.byContract[p.ContractID] = append(idx.byContract[p.ContractID], p)
			key := contractMonthKey(p.ContractID, p.PaymentMonth.Time.UTC())
			idx.byContractMonth[key] = append(idx.byContractMonth[key], p)
		}
	}
	return idx
}

func contractMonthKey(contractID string, month time.Time) string {
	return contractID + "|" + utils.MonthKey(month)
}

// OrderPaid 与 IsOrderPaid 结果一致
func (i *Index) OrderPaid(orderID string) bool {
	if orderID == "" {
		return false
	}
	return len(i.byOrder[orderID]) > 0
}

// ContractMonth 与 IsContractMonthPaid 结果一致
func (i *Index) ContractMonth(contractID string, month time.Time) MonthCheck {
	check := MonthCheck{ExistingPayments: []models.Payment{}}
	if contractID == "" {
		return check
	}
	if month.Location() == time.UTC {
		check.ExistingPayments = append(check.ExistingPayments, i.byContractMonth[contractMonthKey(contractID, month)]...)
	} else {
		start, next := utils.MonthRange(month)
		for _, p := range i.byContract[contractID] {
			if utils.WithinHalfOpen(p.PaymentMonth.Time, start, next) {
				check.ExistingPayments = append(check.ExistingPayments, p)
			}
		}
	}
	check.IsPaid = len(check.ExistingPayments) > 0
	return check
}
