package employees

import (
	"fmt"

	"custodian/internal/repository"
	custom_error "custodian/pkg/errors"
	"custodian/pkg/metadata"
	"custodian/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

type EmployeeRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *EmployeeRepository {
	return &EmployeeRepository{
		repository: r,
	}
}

func (r *EmployeeRepository) GetIDByCode(tx *goqu.TxDatabase, empCode string) (int, error) {
	var id int
	found, err := tx.Select("id").
		From("employees").
		Where(goqu.Ex{"emp_code": empCode}).
		Executor().
		ScanVal(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to look up employee: %w", err)
	}
	if !found {
		return 0, custom_error.NewNotFound("employee %s not found", empCode)
	}

	return id, nil
}

// LockStateByCode locks the employee row so a resign or force delete
// serializes against concurrent transitions on the same employee.
func (r *EmployeeRepository) LockStateByCode(tx *goqu.TxDatabase, empCode string) (*models.EmployeeState, error) {
	var state models.EmployeeState
	found, err := tx.Select("id", "emp_code", "status_work").
		From("employees").
		Where(goqu.Ex{"emp_code": empCode}).
		ForUpdate(exp.Wait).
		Executor().
		ScanStruct(&state)

	if err != nil {
		return nil, fmt.Errorf("failed to lock employee row: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("employee %s not found", empCode)
	}

	return &state, nil
}

// CountOpenCustody counts ledger records the employee still has to answer
// for. Returned episodes awaiting finalization do not block a resignation.
func (r *EmployeeRepository) CountOpenCustody(tx *goqu.TxDatabase, employeeID int) (int, error) {
	var count int
	_, err := tx.Select(goqu.COUNT("*")).
		From("assets_history").
		Where(goqu.Ex{
			"employee_id":   employeeID,
			"returned_date": nil,
		}).
		Where(goqu.C("history_status").Neq(metadata.HistoryReturned.String())).
		Executor().
		ScanVal(&count)

	if err != nil {
		return 0, fmt.Errorf("failed to count open custody records: %w", err)
	}

	return count, nil
}

func (r *EmployeeRepository) SetWorkStatus(tx *goqu.TxDatabase, empCode string, status metadata.WorkStatus) error {
	result, err := tx.Update("employees").
		Set(goqu.Record{"status_work": status.String()}).
		Where(goqu.Ex{"emp_code": empCode}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update employee work status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("employee %s not found", empCode)
	}

	return nil
}

// PromoteResigned moves every resigned employee to deleted and returns how
// many rows advanced.
func (r *EmployeeRepository) PromoteResigned(tx *goqu.TxDatabase) (int64, error) {
	result, err := tx.Update("employees").
		Set(goqu.Record{"status_work": metadata.WorkDeleted.String()}).
		Where(goqu.Ex{"status_work": metadata.WorkResigned.String()}).
		Executor().
		Exec()

	if err != nil {
		return 0, fmt.Errorf("failed to promote resigned employees: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteActivityLogs removes audit rows referencing the employee, the first
// step of the force-delete cascade.
func (r *EmployeeRepository) DeleteActivityLogs(tx *goqu.TxDatabase, employeeID int) error {
	_, err := tx.Delete("activity_logs").
		Where(goqu.Or(
			goqu.Ex{"changed_by": employeeID},
			goqu.Ex{"resource_type": "employee", "resource_id": employeeID},
		)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to delete activity logs: %w", err)
	}
	return nil
}

// DeleteLedgerRows removes custody history where the employee was custodian
// or acting custodian. Only the force-delete cascade may do this.
func (r *EmployeeRepository) DeleteLedgerRows(tx *goqu.TxDatabase, employeeID int) error {
	_, err := tx.Delete("assets_history").
		Where(goqu.Or(
			goqu.Ex{"employee_id": employeeID},
			goqu.Ex{"handover_by": employeeID},
		)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to delete custody records: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) DeleteEmployee(tx *goqu.TxDatabase, employeeID int) error {
	result, err := tx.Delete("employees").
		Where(goqu.Ex{"id": employeeID}).
		Executor().
		Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Employee is still referenced", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("employee %d not found", employeeID)
	}

	return nil
}

func (r *EmployeeRepository) CreateEmployee(req models.CreateEmployeeRequest, passwordHash string) (*models.Employee, error) {
	record := goqu.Record{
		"emp_code":         req.EmpCode,
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"full_name":        req.FullName,
		"email":            req.Email,
		"password":         passwordHash,
		"role":             req.Role,
		"status_account":   req.StatusAccount,
		"business_unit_id": req.BusinessUnitID,
		"department_id":    req.DepartmentID,
		"position":         req.Position,
		"status_work":      req.StatusWork,
		"note":             req.Note,
	}
	if req.JoinDate != "" {
		record["join_date"] = req.JoinDate
	}

	var id int
	query := r.repository.GoquDBWrapper.Insert("employees").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Employee code or email already exists", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}

	return r.GetByCode(req.EmpCode)
}

// EmailExists reports whether any employee already uses the address.
func (r *EmployeeRepository) EmailExists(email string) (bool, error) {
	var count int
	_, err := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("employees").
		Where(goqu.Ex{"email": email}).
		Executor().
		ScanVal(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}

	return count > 0, nil
}

func (r *EmployeeRepository) GetByCode(empCode string) (*models.Employee, error) {
	var employee models.Employee
	query := r.getEmployeeQuery().Where(goqu.Ex{"e.emp_code": empCode})

	found, err := query.Executor().ScanStruct(&employee)
	if err != nil {
		return nil, fmt.Errorf("unable to select employee from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("employee %s not found", empCode)
	}

	return &employee, nil
}

// GetByCodeForAuth returns the credential row for login; the password hash
// is only ever read on this path.
func (r *EmployeeRepository) GetByCodeForAuth(empCode string) (*models.Employee, error) {
	var employee models.Employee
	found, err := r.repository.GoquDBWrapper.
		Select(
			goqu.I("id").As("employee_id"),
			"emp_code",
			"full_name",
			"email",
			"password",
			"role",
			"status_account",
		).
		From("employees").
		Where(goqu.Ex{"emp_code": empCode}).
		Executor().
		ScanStruct(&employee)

	if err != nil {
		return nil, fmt.Errorf("unable to select employee from database: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("employee %s not found", empCode)
	}

	return &employee, nil
}

func (r *EmployeeRepository) UpdateEmployee(empCode string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	record := goqu.Record{}
	setIfPresent := func(column, value string) {
		if value != "" {
			record[column] = value
		}
	}
	setIfPresent("first_name", req.FirstName)
	setIfPresent("last_name", req.LastName)
	setIfPresent("full_name", req.FullName)
	setIfPresent("email", req.Email)
	setIfPresent("position", req.Position)
	setIfPresent("role", req.Role)
	setIfPresent("status_account", req.StatusAccount)
	setIfPresent("status_work", req.StatusWork)
	setIfPresent("note", req.Note)
	if req.BusinessUnitID != 0 {
		record["business_unit_id"] = req.BusinessUnitID
	}
	if req.DepartmentID != 0 {
		record["department_id"] = req.DepartmentID
	}
	if req.JoinDate != nil {
		record["join_date"] = *req.JoinDate
	}
	if req.LeaveDate != nil {
		record["leave_date"] = *req.LeaveDate
	}

	if len(record) == 0 {
		return nil, custom_error.NewValidation("no updatable fields supplied")
	}

	result, err := r.repository.GoquDBWrapper.
		Update("employees").
		Set(record).
		Where(goqu.Ex{"emp_code": empCode}).
		Executor().
		Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Employee email already exists", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, custom_error.NewNotFound("employee %s not found", empCode)
	}

	return r.GetByCode(empCode)
}

func (r *EmployeeRepository) GetEmployeeList() ([]models.Employee, error) {
	return r.scanEmployees(r.getEmployeeQuery().Order(goqu.I("e.emp_code").Asc()))
}

func (r *EmployeeRepository) GetEmployeesByWorkStatus(statusWork string) ([]models.Employee, error) {
	query := r.getEmployeeQuery().
		Where(goqu.Ex{"e.status_work": statusWork}).
		Order(goqu.I("e.emp_code").Asc())
	return r.scanEmployees(query)
}

func (r *EmployeeRepository) GetActiveEmployees() ([]models.Employee, error) {
	return r.GetEmployeesByWorkStatus(metadata.WorkWorking.String())
}

func (r *EmployeeRepository) GetDistinctWorkStatuses() ([]string, error) {
	var statuses []string
	query := r.repository.GoquDBWrapper.
		Select(goqu.DISTINCT("status_work")).
		From("employees").
		Order(goqu.I("status_work").Asc())

	if err := query.Executor().ScanVals(&statuses); err != nil {
		return nil, fmt.Errorf("failed to select work statuses: %w", err)
	}

	return statuses, nil
}

func (r *EmployeeRepository) scanEmployees(query *goqu.SelectDataset) ([]models.Employee, error) {
	var employees []models.Employee
	if err := query.Executor().ScanStructs(&employees); err != nil {
		return nil, fmt.Errorf("unable to select employees from database: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) getEmployeeQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("e.id").As("employee_id"),
		"e.emp_code",
		goqu.I("e.first_name").As("first_name"),
		goqu.I("e.last_name").As("last_name"),
		goqu.I("e.full_name").As("full_name"),
		"e.email",
		"e.role",
		goqu.I("e.status_account").As("status_account"),
		goqu.I("e.business_unit_id").As("business_unit_id"),
		goqu.I("bu.business_unit_name").As("business_unit_name"),
		goqu.I("e.department_id").As("department_id"),
		goqu.I("d.department_name").As("department_name"),
		"e.position",
		goqu.I("e.join_date").As("join_date"),
		goqu.I("e.leave_date").As("leave_date"),
		goqu.I("e.status_work").As("status_work"),
		"e.note",
	).
		From(goqu.T("employees").As("e")).
		LeftJoin(
			goqu.T("business_units").As("bu"),
			goqu.On(goqu.Ex{"e.business_unit_id": goqu.I("bu.business_unit_id")}),
		).
		LeftJoin(
			goqu.T("departments").As("d"),
			goqu.On(goqu.Ex{"e.department_id": goqu.I("d.department_id")}),
		)
}
