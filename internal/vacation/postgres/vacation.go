package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	vacationDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/vacation"
	ledgerPostgres "github.com/frahmantamala/leave-management/internal/ledger/postgres"
	"github.com/frahmantamala/leave-management/internal/vacation"
	"gorm.io/gorm"
)

// VacationRepository implements vacation.Repository using GORM. Decisions
// are conditional updates guarded on status='pending', so of two concurrent
// deciders exactly one flips the row; the other sees zero affected rows.
type VacationRepository struct {
	db     *gorm.DB
	ledger *ledgerPostgres.LedgerRepository
}

func NewVacationRepository(db *gorm.DB, ledger *ledgerPostgres.LedgerRepository) *VacationRepository {
	return &VacationRepository{db: db, ledger: ledger}
}

func (r *VacationRepository) Create(req *vacation.Request) error {
	dm := vacation.ToDataModel(req)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	req.ID = dm.ID
	return nil
}

func (r *VacationRepository) GetByID(id int64) (*vacation.Request, error) {
	var dm vacationDatamodel.VacationRequest
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vacation.ErrRequestNotFound
		}
		return nil, err
	}
	return vacation.FromDataModel(&dm), nil
}

func (r *VacationRepository) ListByEmployee(employeeID int64, limit, offset int) ([]*vacation.Request, error) {
	var rows []*vacationDatamodel.VacationRequest
	err := r.db.Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return vacation.FromDataModelSlice(rows), nil
}

func (r *VacationRepository) ListPendingByEmployee(employeeID int64) ([]*vacation.Request, error) {
	var rows []*vacationDatamodel.VacationRequest
	err := r.db.Where("employee_id = ? AND status = ?", employeeID, vacation.StatusPending).
		Order("start_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return vacation.FromDataModelSlice(rows), nil
}

// ListPendingBySupervisor returns the pending requests of the supervisor's
// direct reports, oldest first.
func (r *VacationRepository) ListPendingBySupervisor(supervisorID int64) ([]*vacation.Request, error) {
	var rows []*vacationDatamodel.VacationRequest
	err := r.db.
		Joins("JOIN employees ON employees.id = vacation_requests.employee_id").
		Where("employees.supervisor_id = ? AND vacation_requests.status = ?", supervisorID, vacation.StatusPending).
		Order("vacation_requests.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return vacation.FromDataModelSlice(rows), nil
}

// CountPending reports the number of open requests and the days they hold.
func (r *VacationRepository) CountPending(employeeID int64) (int, int, error) {
	type agg struct {
		Requests int
		Days     int
	}
	var out agg
	err := r.db.Model(&vacationDatamodel.VacationRequest{}).
		Select("COUNT(*) AS requests, COALESCE(SUM(days_requested), 0) AS days").
		Where("employee_id = ? AND status = ?", employeeID, vacation.StatusPending).
		Scan(&out).Error
	if err != nil {
		return 0, 0, err
	}
	return out.Requests, out.Days, nil
}

// Approve flips the request to approved and debits the employee's balance
// in one transaction. Either both writes commit or neither does.
func (r *VacationRepository) Approve(requestID, employeeID int64, days int, comment string, processedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.markDecided(tx, requestID, vacation.StatusApproved, comment, processedAt); err != nil {
			return err
		}
		// balance re-check happens here, at decision time: the guard in the
		// debit statement fails the whole transaction when days exceed the
		// current balance
		return r.ledger.DebitTx(tx, employeeID, days)
	})
}

// Reject flips the request to rejected. The balance is untouched.
func (r *VacationRepository) Reject(requestID int64, comment string, processedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.markDecided(tx, requestID, vacation.StatusRejected, comment, processedAt)
	})
}

func (r *VacationRepository) markDecided(tx *gorm.DB, requestID int64, status, comment string, processedAt time.Time) error {
	res := tx.Model(&vacationDatamodel.VacationRequest{}).
		Where("id = ? AND status = ?", requestID, vacation.StatusPending).
		Updates(map[string]interface{}{
			"status":             status,
			"supervisor_comment": comment,
			"processed_at":       processedAt,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrRequestNotActionable
	}
	return nil
}
