package models

// Room 房间
type Room struct {
	ID          string   `json:"id"`
	RoomNumber  string   `json:"roomNumber"`
	Type        string   `json:"type"`
	Capacity    int      `json:"capacity"`
	RentAmount  float64  `json:"rentAmount"`
	Status      string   `json:"status"`
	Building    string   `json:"building"`
	Floor       int      `json:"floor"`
	Amenities   []string `json:"amenities,omitempty"`
	Description string   `json:"description,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
}

// RoomType 房型
const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
	RoomTypeSuite  = "suite"
)

// RoomStatus 房间状态
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// RoomTypes 全部房型
var RoomTypes = []string{RoomTypeSingle, RoomTypeDouble, RoomTypeSuite}

// RoomStatuses 全部房间状态
var RoomStatuses = []string{RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance}

// RoomHistory 房间变更记录，只追加
type RoomHistory struct {
	ID        string                 `json:"id"`
	RoomID    string                 `json:"roomId"`
	Action    string                 `json:"action"`
	OldValues map[string]interface{} `json:"oldValues,omitempty"`
	NewValues map[string]interface{} `json:"newValues,omitempty"`
	ChangedBy string                 `json:"changedBy"`
	Timestamp *Time                  `json:"timestamp"`
}

// RoomHistoryAction 变更类型
const (
	RoomActionCreate = "create"
	RoomActionUpdate = "update"
	RoomActionDelete = "delete"
)
