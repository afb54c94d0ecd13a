package models

// Service 可购买的服务项目
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// ServiceOrder 服务订单
type ServiceOrder struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	ServiceID    string  `json:"serviceId"`
	RoomID       string  `json:"roomId,omitempty"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
	TotalAmount  float64 `json:"totalAmount"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	OrderDate    *Time   `json:"orderDate,omitempty"`
}

// ServiceOrderStatus 服务订单状态
const (
	ServiceOrderStatusPending    = "pending"
	ServiceOrderStatusProcessing = "processing"
	ServiceOrderStatusCompleted  = "completed"
	ServiceOrderStatusCancelled  = "cancelled"
)

// ServiceOrderStatuses 全部服务订单状态
var ServiceOrderStatuses = []string{
	ServiceOrderStatusPending,
	ServiceOrderStatusProcessing,
	ServiceOrderStatusCompleted,
	ServiceOrderStatusCancelled,
}

// FoodOrder 餐饮订单
type FoodOrder struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	OrderTime   *Time   `json:"orderTime,omitempty"`
}

// FoodOrderStatus 餐饮订单状态
const (
	FoodOrderStatusPending   = "pending"
	FoodOrderStatusConfirmed = "confirmed"
	FoodOrderStatusDelivered = "delivered"
	FoodOrderStatusCancelled = "cancelled"
)
