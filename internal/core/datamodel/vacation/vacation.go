package vacation

import "time"

type VacationRequest struct {
	ID                int64      `gorm:"primaryKey"`
	EmployeeID        int64      `gorm:"column:employee_id;not null;index"`
	StartDate         time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate           time.Time  `gorm:"column:end_date;type:date;not null"`
	DaysRequested     int        `gorm:"column:days_requested;not null"`
	Reason            string     `gorm:"column:reason;not null"`
	Status            string     `gorm:"column:status;default:pending;index"`
	SupervisorComment *string    `gorm:"column:supervisor_comment"`
	CreatedAt         time.Time  `gorm:"column:created_at;default:now()"`
	ProcessedAt       *time.Time `gorm:"column:processed_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;default:now()"`
}

func (VacationRequest) TableName() string {
	return "vacation_requests"
}
