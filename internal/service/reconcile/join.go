package reconcile

import (
	"strings"

	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// 无法解析外键时的占位值
const (
	UnknownUser     = "Unknown User"
	UnknownActivity = "Unknown Activity"
	UnknownService  = "Unknown Service"
	UnknownRoom     = "Unknown Room"
)

// Refs 拼接所需的关联数据，缺失的集合按空处理
type Refs struct {
	Users         []models.User
	ServiceOrders []models.ServiceOrder
	Services      []models.Service
	Contracts     []models.Contract
	Rooms         []models.Room
	FoodOrders    []models.FoodOrder
}

// PaymentView 带学生姓名和业务描述的支付记录
type PaymentView struct {
	models.Payment
	StudentName  string `json:"studentName"`
	ActivityName string `json:"activityName"`
}

// ServiceOrderView 带学生、服务和房间信息的服务订单
type ServiceOrderView struct {
	models.ServiceOrder
	StudentName string `json:"studentName"`
	ServiceName string `json:"serviceName"`
	RoomNumber  string `json:"roomNumber"`
}

// Joiner 持有各关联集合的索引
type Joiner struct {
	users         *Index[models.User]
	serviceOrders *Index[models.ServiceOrder]
	services      *Index[models.Service]
	contracts     *Index[models.Contract]
	rooms         *Index[models.Room]
	foodOrders    *Index[models.FoodOrder]
}

// NewJoiner 为关联数据建立索引
func NewJoiner(refs Refs) *Joiner {
	return &Joiner{
		users:         NewIndex(refs.Users, func(u models.User) string { return u.ID }),
		serviceOrders: NewIndex(refs.ServiceOrders, func(o models.ServiceOrder) string { return o.ID }),
		services:      NewIndex(refs.Services, func(s models.Service) string { return s.ID }),
		contracts:     NewIndex(refs.Contracts, func(c models.Contract) string { return c.ID }),
		rooms:         NewIndex(refs.Rooms, func(r models.Room) string { return r.ID }),
		foodOrders:    NewIndex(refs.FoodOrders, func(f models.FoodOrder) string { return f.ID }),
	}
}

// JoinPayments 一次性拼接支付记录
func JoinPayments(payments []models.Payment, refs Refs) []PaymentView {
	return NewJoiner(refs).Payments(payments)
}

// JoinServiceOrders 一次性拼接服务订单
func JoinServiceOrders(orders []models.ServiceOrder, refs Refs) []ServiceOrderView {
	return NewJoiner(refs).ServiceOrders(orders)
}

// StudentName 解析学生姓名
func (j *Joiner) StudentName(userID string) string {
	if u, ok := j.users.Lookup(userID); ok && u.Name != "" {
		return u.Name
	}
	return UnknownUser
}

// Payments 拼接支付记录，顺序与输入一致
func (j *Joiner) Payments(payments []models.Payment) []PaymentView {
	out := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentView{
			Payment:      p,
			StudentName:  j.StudentName(p.UserID),
			ActivityName: j.activity(p),
		})
	}
	return out
}

func (j *Joiner) activity(p models.Payment) string {
	switch p.PaymentType {
	case models.PaymentTypeService:
		order, ok := j.serviceOrders.Lookup(p.ServiceOrderID)
		if !ok {
			return UnknownActivity
		}
		if svc, ok := j.services.Lookup(order.ServiceID); ok && svc.Name != "" {
			return svc.Name
		}
	case models.PaymentTypeContract:
		contract, ok := j.contracts.Lookup(p.ContractID)
		if !ok {
			return UnknownActivity
		}
		label := "Contract " + j.roomNumbers(contract)
		if p.PaymentMonth.Valid() {
			label += " " + utils.MonthKey(p.PaymentMonth.Time)
		}
		return label
	case models.PaymentTypeFood:
		order, ok := j.foodOrders.Lookup(p.FoodOrderID)
		if !ok {
			return UnknownActivity
		}
		if order.OrderTime.Valid() {
			return "Food order " + order.OrderTime.Format("2006-01-02 15:04")
		}
		return "Food order " + order.ID
	}
	return UnknownActivity
}

func (j *Joiner) roomNumbers(c models.Contract) string {
	numbers := make([]string, 0, len(c.RoomIDs))
	for _, id := range c.RoomIDs {
		if r, ok := j.rooms.Lookup(id); ok && r.RoomNumber != "" {
			numbers = append(numbers, r.RoomNumber)
		}
	}
	if len(numbers) == 0 {
		return c.ID
	}
	return strings.Join(numbers, ", ")
}

// ServiceOrders 拼接服务订单，顺序与输入一致
func (j *Joiner) ServiceOrders(orders []models.ServiceOrder) []ServiceOrderView {
	out := make([]ServiceOrderView, 0, len(orders))
	for _, o := range orders {
		v := ServiceOrderView{
			ServiceOrder: o,
			StudentName:  j.StudentName(o.UserID),
			ServiceName:  UnknownService,
			RoomNumber:   UnknownRoom,
		}
		if svc, ok := j.services.Lookup(o.ServiceID); ok && svc.Name != "" {
			v.ServiceName = svc.Name
		}
		if r, ok := j.rooms.Lookup(o.RoomID); ok && r.RoomNumber != "" {
			v.RoomNumber = r.RoomNumber
		}
		out = append(out, v)
	}
	return out
}
