package validation

import (
	"strings"

	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// RoomForm 房间表单
type RoomForm struct {
	RoomNumber  string   `json:"roomNumber" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=single double suite"`
	Capacity    int      `json:"capacity" validate:"min=1"`
	RentAmount  float64  `json:"rentAmount" validate:"min=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	Building    string   `json:"building" validate:"required,building"`
	Floor       int      `json:"floor" validate:"min=0"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description" validate:"max=1000"`
	PhotoURL    string   `json:"photoUrl" validate:"omitempty,url"`
}

// PaymentForm 支付表单，金额按面板输入的字符串提交
type PaymentForm struct {
	UserID         string `json:"userId" validate:"required"`
	PaymentType    string `json:"paymentType" validate:"required,oneof=service contract food"`
	ServiceOrderID string `json:"serviceOrderId" validate:"required_if=PaymentType service"`
	ContractID     string `json:"contractId" validate:"required_if=PaymentType contract"`
	FoodOrderID    string `json:"foodOrderId" validate:"required_if=PaymentType food"`
	Amount         string `json:"amount" validate:"positive_money"`
	TaxAmount      string `json:"taxAmount" validate:"omitempty,money"`
	DiscountAmount string `json:"discountAmount" validate:"omitempty,money"`
	PaymentMethod  string `json:"paymentMethod" validate:"required,oneof=cash bank_transfer momo vnpay card"`
	DueDate        string `json:"dueDate" validate:"date"`
	PaymentMonth   string `json:"paymentMonth" validate:"required_if=PaymentType contract,date"`
	Notes          string `json:"notes" validate:"max=500"`
}

// UserForm 用户表单
type UserForm struct {
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Role      string `json:"role" validate:"required,oneof=admin staff student"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive banned"`
	StudentID string `json:"studentId" validate:"max=50"`
}

// ServiceOrderForm 服务订单表单
type ServiceOrderForm struct {
	UserID       string `json:"userId" validate:"required"`
	ServiceID    string `json:"serviceId" validate:"required"`
	RoomID       string `json:"roomId"`
	Quantity     int    `json:"quantity" validate:"min=1"`
	PricePerUnit string `json:"pricePerUnit" validate:"required,money"`
	Status       string `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	Notes        string `json:"notes" validate:"max=500"`
}

// ContractForm 合同表单
type ContractForm struct {
	UserID      string   `json:"userId" validate:"required"`
	RoomIDs     []string `json:"roomIds" validate:"min=1,dive,required"`
	StartDate   string   `json:"startDate" validate:"required,date"`
	EndDate     string   `json:"endDate" validate:"required,date"`
	Status      string   `json:"status" validate:"omitempty,oneof=active expired terminated"`
	MonthlyRent string   `json:"monthlyRent" validate:"omitempty,money"`
	Deposit     string   `json:"deposit" validate:"omitempty,money"`
}

// Normalize 去掉文本字段首尾空白，纯空白的房间号视为未填
func (f *RoomForm) Normalize() {
	f.RoomNumber = strings.TrimSpace(f.RoomNumber)
	f.Type = strings.TrimSpace(f.Type)
	f.Status = strings.TrimSpace(f.Status)
	f.Building = strings.TrimSpace(f.Building)
}

// ValidateRoom 先规整表单再校验房间
func (v *Validator) ValidateRoom(f *RoomForm) Result {
	f.Normalize()
	return v.check(f)
}

// ValidatePayment 校验支付，另外要求实付金额不为负
func (v *Validator) ValidatePayment(f *PaymentForm) Result {
	res := v.check(f)
	if _, bad := res.Errors["amount"]; bad {
		return res
	}
	if _, bad := res.Errors["discountAmount"]; bad {
		return res
	}
	if _, bad := res.Errors["taxAmount"]; bad {
		return res
	}
	if models.ComputeFinalAmount(ParseMoney(f.Amount), ParseMoney(f.DiscountAmount), ParseMoney(f.TaxAmount)) < 0 {
		res.add("discountAmount", "折扣不能超过金额与税费之和")
	}
	return res
}

// ValidateUser 校验用户
func (v *Validator) ValidateUser(f *UserForm) Result {
	return v.check(f)
}

// ValidateServiceOrder 校验服务订单
func (v *Validator) ValidateServiceOrder(f *ServiceOrderForm) Result {
	return v.check(f)
}

// ValidateContract 校验合同，结束日期不得早于开始日期
func (v *Validator) ValidateContract(f *ContractForm) Result {
	res := v.check(f)
	start, errStart := models.ParseTime(f.StartDate)
	end, errEnd := models.ParseTime(f.EndDate)
	if errStart == nil && errEnd == nil && end.Before(start) {
		res.add("endDate", "结束日期不能早于开始日期")
	}
	return res
}
