package user

import "time"

type User struct {
	ID           string     `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	PhoneNumber  string     `gorm:"column:phone_number"`
	Role         string     `gorm:"column:role;not null"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	DepartmentID *string    `gorm:"column:department_id"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
