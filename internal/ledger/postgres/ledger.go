package postgres

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"gorm.io/gorm"
)

// LedgerRepository implements ledger.Store with single-statement conditional
// updates. The database serializes writers on the employee row, so a debit
// can never race past the balance guard.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Credit(employeeID int64, days int) error {
	return r.CreditTx(r.db, employeeID, days)
}

func (r *LedgerRepository) Debit(employeeID int64, days int) error {
	return r.DebitTx(r.db, employeeID, days)
}

// CreditTx applies a credit inside the caller's transaction.
func (r *LedgerRepository) CreditTx(tx *gorm.DB, employeeID int64, days int) error {
	res := tx.Exec(
		`UPDATE employees SET vacation_days = vacation_days + ?, updated_at = ? WHERE id = ?`,
		days, time.Now(), employeeID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

// DebitTx applies a debit inside the caller's transaction. The balance guard
// is part of the statement: zero affected rows on an existing employee means
// insufficient balance.
func (r *LedgerRepository) DebitTx(tx *gorm.DB, employeeID int64, days int) error {
	res := tx.Exec(
		`UPDATE employees SET vacation_days = vacation_days - ?, updated_at = ? WHERE id = ? AND vacation_days >= ?`,
		days, time.Now(), employeeID, days,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Table("employees").Where("id = ?", employeeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return internal.ErrEmployeeNotFound
		}
		return internal.ErrInsufficientBalance
	}
	return nil
}

// GrantInitial credits the annual allotment and stamps leave_granted_at in
// one statement. The null-marker guard makes re-runs no-ops.
func (r *LedgerRepository) GrantInitial(employeeID int64, days int, at time.Time) (bool, error) {
	res := r.db.Exec(
		`UPDATE employees
		 SET vacation_days = vacation_days + ?, leave_granted_at = ?, updated_at = ?
		 WHERE id = ? AND leave_granted_at IS NULL`,
		days, at, time.Now(), employeeID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
