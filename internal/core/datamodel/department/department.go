package department

import "time"

type Department struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Manager     string    `gorm:"column:manager"`
	Phone       string    `gorm:"column:phone"`
	Email       string    `gorm:"column:email"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}
