package models

import (
	"math"
)

// Payment 支付记录
// 按 PaymentType 只设置 ServiceOrderID / ContractID / FoodOrderID 之一
type Payment struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	PaymentType    string  `json:"paymentType"`
	ServiceOrderID string  `json:"serviceOrderId,omitempty"`
	ContractID     string  `json:"contractId,omitempty"`
	FoodOrderID    string  `json:"foodOrderId,omitempty"`
	Amount         float64 `json:"amount"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"paymentMethod"`
	DueDate        *Time   `json:"dueDate,omitempty"`
	PaymentMonth   *Time   `json:"paymentMonth,omitempty"`
	PaidDate       *Time   `json:"paidDate,omitempty"`
	RefundDate     *Time   `json:"refundDate,omitempty"`
	RefundReason   string  `json:"refundReason,omitempty"`
	ReceiptURL     string  `json:"receiptUrl,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	CreatedBy      string  `json:"createdBy,omitempty"`
	CreatedAt      *Time   `json:"createdAt,omitempty"`
}

// PaymentType 支付类型
const (
	PaymentTypeService  = "service"
	PaymentTypeContract = "contract"
	PaymentTypeFood     = "food"
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// PaymentMethod 支付方式
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMomo         = "momo"
	PaymentMethodVNPay        = "vnpay"
	PaymentMethodCard         = "card"
)

// PaymentTypes 全部支付类型
var PaymentTypes = []string{PaymentTypeService, PaymentTypeContract, PaymentTypeFood}

// PaymentMethods 全部支付方式
var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodBankTransfer,
	PaymentMethodMomo,
	PaymentMethodVNPay,
	PaymentMethodCard,
}

// OrderID 返回服务或餐饮支付关联的订单ID
func (p *Payment) OrderID() string {
	switch p.PaymentType {
	case PaymentTypeService:
		return p.ServiceOrderID
	case PaymentTypeFood:
		return p.FoodOrderID
	}
	if p.ServiceOrderID != "" {
		return p.ServiceOrderID
	}
	return p.FoodOrderID
}

// IsPaid 是否已支付
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// ComputeFinalAmount 实付金额 = 金额 - 折扣 + 税费，保留两位小数
func ComputeFinalAmount(amount, discount, tax float64) float64 {
	return math.Round((amount-discount+tax)*100) / 100
}
