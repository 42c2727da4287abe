package account

import (
	"github.com/fundwit/go-commons/types"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Name   string   `json:"name" gorm:"unique_index:uni_user_name"`
	Secret string   `json:"-"`

	Nickname       string   `json:"nickname"`
	Role           string   `json:"role"`
	CanCreateOrder bool     `json:"canCreateOrder"`
	DepartmentID   types.ID `json:"departmentId"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

func (r *User) TableName() string {
	return "users"
}

type Department struct {
	ID          types.ID `json:"id" gorm:"primary_key"`
	Name        string   `json:"name" gorm:"unique_index:uni_department_name"`
	Description string   `json:"description"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

func (r *Department) TableName() string {
	return "departments"
}

type UserInfo struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	Nickname     string   `json:"nickname"`
	DepartmentID types.ID `json:"departmentId"`
}

func (u *UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

type UserCreation struct {
	Name     string `json:"name" binding:"required"`
	Secret   string `json:"secret" binding:"required,gte=6"`
	Nickname string `json:"nickname"`

	Role           string   `json:"role"`
	CanCreateOrder bool     `json:"canCreateOrder"`
	DepartmentID   types.ID `json:"departmentId"`
}
