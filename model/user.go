package model

import "time"

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;size:128;not null"`
	Realname     string `json:"realname" gorm:"size:20"`
	Avatar       string `json:"avatar" gorm:"size:255"`
	Enable       bool   `json:"enable" gorm:"default:true"`
	DeptID       *uint  `json:"dept_id"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`

	Dept  *Department `json:"dept,omitempty" gorm:"foreignKey:DeptID"`
	Roles []Role      `json:"roles,omitempty" gorm:"many2many:admin_user_role"`
}

func (User) TableName() string { return "admin_user" }

type Role struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:50;not null"`
	Code      string `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Enable    bool   `json:"enable" gorm:"default:true"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
	Remark    string `json:"remark" gorm:"size:255"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`

	Powers []Power `json:"powers,omitempty" gorm:"many2many:admin_role_power"`
}

func (Role) TableName() string { return "admin_role" }

// Power is one grantable permission; Code is the string checked by the
// authorization middleware (e.g. "system:questionnaire:add").
type Power struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:50;not null"`
	Code      string `json:"code" gorm:"size:100;uniqueIndex;not null"`
	Type      string `json:"type" gorm:"size:20"`
	ParentID  *uint  `json:"parent_id"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
	Enable    bool   `json:"enable" gorm:"default:true"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`
}

func (Power) TableName() string { return "admin_power" }

type Department struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:50;not null"`
	Leader    string `json:"leader" gorm:"size:20"`
	Phone     string `json:"phone" gorm:"size:20"`
	Email     string `json:"email" gorm:"size:50"`
	Status    bool   `json:"status" gorm:"default:true"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"create_at"`
	UpdatedAt time.Time `json:"update_at"`
}

func (Department) TableName() string { return "admin_dept" }
