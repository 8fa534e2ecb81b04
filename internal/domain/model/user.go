package model

import "time"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

type User struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Username        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash    string `gorm:"column:password_hash;not null"`
	FirstName       string `gorm:"type:varchar(100);not null"`
	LastName        string `gorm:"type:varchar(100);not null"`
	Email           string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone           string `gorm:"type:varchar(30)"`
	ShippingAddress string `gorm:"type:varchar(255)"`
	Role            Role   `gorm:"type:varchar(20);not null;default:'Customer'"`
	TokenVersion    int    `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// 顧客アカウント。カートを1つ持つ
type Customer struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
