package employee

// BalanceDTO is the dashboard view of an employee's leave position.
type BalanceDTO struct {
	EmployeeID      int64 `json:"employee_id"`
	VacationDays    int   `json:"vacation_days"`
	PendingRequests int   `json:"pending_requests"`
	PendingDays     int   `json:"pending_days"`
	Granted         bool  `json:"granted"`
}
