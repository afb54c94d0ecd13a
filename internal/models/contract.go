package models

// Contract 租住合同
// 同一学生同时最多一份生效合同，存储层不强制
type Contract struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	RoomIDs     []string `json:"roomIds"`
	StartDate   *Time    `json:"startDate,omitempty"`
	EndDate     *Time    `json:"endDate,omitempty"`
	Status      string   `json:"status"`
	MonthlyRent float64  `json:"monthlyRent,omitempty"`
	Deposit     float64  `json:"deposit,omitempty"`
}

// ContractStatus 合同状态
const (
	ContractStatusActive     = "active"
	ContractStatusExpired    = "expired"
	ContractStatusTerminated = "terminated"
)

// ContractStatuses 全部合同状态
var ContractStatuses = []string{ContractStatusActive, ContractStatusExpired, ContractStatusTerminated}
