package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const dateLayout = "2006-01-02"

type Leave struct {
	LeaveID    string    `gorm:"column:leave_id;type:varchar(10);primaryKey"`
	EmployeeID string    `gorm:"type:varchar(10);not null;index:idx_leaves_employee_status,priority:1"`
	Reason     string    `gorm:"type:text;not null"`
	Type       string    `gorm:"type:varchar(30);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	Status     string    `gorm:"type:varchar(10);not null;default:'pending';index:idx_leaves_employee_status,priority:2"`
	AppliedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Leave) TableName() string { return "leaves" }

// LeaveDetail is a leave joined with the applicant's name.
type LeaveDetail struct {
	Leave     `gorm:"embedded"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

type StatusCounts struct {
	Pending  int64
	Approved int64
	Rejected int64
}
