package models

// User 用户（学生/管理员）
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	StudentID string `json:"studentId,omitempty"`
	CreatedAt *Time  `json:"createdAt,omitempty"`
}

// UserRole 用户角色
const (
	UserRoleAdmin   = "admin"
	UserRoleStaff   = "staff"
	UserRoleStudent = "student"
)

// UserStatus 用户状态
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

// UserRoles 全部角色
var UserRoles = []string{UserRoleAdmin, UserRoleStaff, UserRoleStudent}

// UserStatuses 全部状态
var UserStatuses = []string{UserStatusActive, UserStatusInactive, UserStatusBanned}
