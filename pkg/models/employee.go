package models

import "time"

type Employee struct {
	ID               int        `json:"employee_id" db:"employee_id"`
	EmpCode          string     `json:"emp_code" db:"emp_code"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	FullName         string     `json:"full_name" db:"full_name"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password"`
	Role             string     `json:"role" db:"role"`
	StatusAccount    string     `json:"status_account" db:"status_account"`
	BusinessUnitID   *int       `json:"business_unit_id,omitempty" db:"business_unit_id"`
	BusinessUnitName string     `json:"business_unit_name,omitempty" db:"business_unit_name"`
	DepartmentID     *int       `json:"department_id,omitempty" db:"department_id"`
	DepartmentName   string     `json:"department_name,omitempty" db:"department_name"`
	Position         string     `json:"position,omitempty" db:"position"`
	JoinDate         *time.Time `json:"join_date,omitempty" db:"join_date"`
	LeaveDate        *time.Time `json:"leave_date,omitempty" db:"leave_date"`
	StatusWork       string     `json:"status_work" db:"status_work"`
	Note             string     `json:"note,omitempty" db:"note"`
}

// EmployeeState is the locked projection read by the lifecycle engine.
type EmployeeState struct {
	ID         int    `db:"id"`
	EmpCode    string `db:"emp_code"`
	StatusWork string `db:"status_work"`
}

func (e *Employee) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   e.ID,
		ResourceType: "employee",
	}
}
