package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "员工"
	RoleManager  Role = "经理"
)

type StaffMember struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Color     string    `json:"color"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// DisplayName 返回排班表行上展示的姓名
func (m *StaffMember) DisplayName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	if m.LastName == "" {
		return m.FirstName
	}
	return m.LastName + m.FirstName
}
