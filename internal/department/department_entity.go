package department

import "time"

type Department struct {
	DepartmentID string    `gorm:"column:department_id;type:varchar(10);primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Description  string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Department) TableName() string { return "departments" }
