package employee

import "time"

type Employee struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	FullName         string           `json:"full_name"`
	Email            string           `json:"email"`
	Department       string           `json:"department"`
	Position         string           `json:"position,omitempty"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	HireDate         time.Time        `json:"hire_date"`
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Brief is the id/name/department projection used in dashboard lists.
type Brief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

func (e Employee) Brief() Brief {
	return Brief{ID: e.ID, Name: e.FullName, Department: e.Department}
}
