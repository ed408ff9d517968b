package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type employeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e.db.mu.RLock()
	defer e.db.mu.RUnlock()

	emp, ok := e.db.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return e.list(func(emp employee.Employee) bool { return true }), nil
}

func (e *employeeRepository) ListActiveByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	return e.list(func(emp employee.Employee) bool { return emp.Department == department }), nil
}

func (e *employeeRepository) list(keep func(employee.Employee) bool) []employee.Employee {
	e.db.mu.RLock()
	defer e.db.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range e.db.employees {
		if emp.EmploymentStatus == employee.EmploymentStatusActive && keep(emp) {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}
