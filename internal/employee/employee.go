package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
)

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type Employee struct {
	ID             int64      `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	Role           string     `json:"role"`
	SupervisorID   *int64     `json:"supervisor_id,omitempty"`
	HireDate       time.Time  `json:"hire_date"`
	VacationDays   int        `json:"vacation_days"`
	LeaveGrantedAt *time.Time `json:"leave_granted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (e *Employee) HasSupervisor() bool {
	return e.SupervisorID != nil
}

func (e *Employee) IsSupervisedBy(supervisorID int64) bool {
	return e.SupervisorID != nil && *e.SupervisorID == supervisorID
}

// TenureMonths reports whole months of employment as of the given date.
func (e *Employee) TenureMonths(asOf time.Time) int {
	if asOf.Before(e.HireDate) {
		return 0
	}
	months := int(asOf.Month()) - int(e.HireDate.Month()) + 12*(asOf.Year()-e.HireDate.Year())
	if asOf.Day() < e.HireDate.Day() {
		months--
	}
	return months
}

func (e *Employee) PhoneNumber() string {
	if e.Phone == nil {
		return ""
	}
	return *e.Phone
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:             e.ID,
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          e.Phone,
		Role:           e.Role,
		SupervisorID:   e.SupervisorID,
		HireDate:       e.HireDate,
		VacationDays:   e.VacationDays,
		LeaveGrantedAt: e.LeaveGrantedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:             e.ID,
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          e.Phone,
		Role:           e.Role,
		SupervisorID:   e.SupervisorID,
		HireDate:       e.HireDate,
		VacationDays:   e.VacationDays,
		LeaveGrantedAt: e.LeaveGrantedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
