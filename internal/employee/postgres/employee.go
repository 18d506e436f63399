package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	employeeDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/leave-management/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.Repository using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&emp), nil
}

// GetSupervisor loads the supervisor of the given employee. Returns
// ErrEmployeeNotFound when the employee has no supervisor assigned or the
// referenced row is gone.
func (r *EmployeeRepository) GetSupervisor(employeeID int64) (*employee.Employee, error) {
	emp, err := r.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if emp.SupervisorID == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return r.GetByID(*emp.SupervisorID)
}

// ListGrantEligible returns employees hired on or before the cutoff who have
// never received their annual grant. Admin accounts are excluded, matching
// how allotments are administered.
func (r *EmployeeRepository) ListGrantEligible(hiredBefore time.Time) ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.
		Where("hire_date <= ?", hiredBefore).
		Where("leave_granted_at IS NULL").
		Where("role <> ?", employee.RoleAdmin).
		Order("hire_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}
