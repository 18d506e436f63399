package employee

import "time"

type Employee struct {
	ID           int64      `gorm:"primaryKey"`
	FullName     string     `gorm:"column:full_name;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string    `gorm:"column:phone"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;default:employee"`
	SupervisorID *int64     `gorm:"column:supervisor_id"`
	HireDate     time.Time  `gorm:"column:hire_date;type:date;not null"`
	VacationDays int        `gorm:"column:vacation_days;default:0"`
	// LeaveGrantedAt records the one-time annual grant. A null value means
	// the employee has never been granted, regardless of current balance.
	LeaveGrantedAt *time.Time `gorm:"column:leave_granted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}
