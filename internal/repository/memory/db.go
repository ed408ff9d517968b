// Package memory is an in-process record store used for local runs and tests.
package memory

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// DB holds every table behind one lock. Records are copied in and out.
type DB struct {
	mu         sync.RWMutex
	employees  map[string]employee.Employee
	holidays   map[string]holiday.Holiday
	leaves     map[string]leave.Leave
	attendance map[string]attendance.Record
	now        func() time.Time
}

func NewDB() *DB {
	return &DB{
		employees:  make(map[string]employee.Employee),
		holidays:   make(map[string]holiday.Holiday),
		leaves:     make(map[string]leave.Leave),
		attendance: make(map[string]attendance.Record),
		now:        time.Now,
	}
}

func (db *DB) SeedEmployees(employees ...employee.Employee) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, e := range employees {
		db.employees[e.ID] = e
	}
}

func (db *DB) SeedHolidays(holidays ...holiday.Holiday) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, h := range holidays {
		h.Date = utils.TruncateDay(h.Date)
		db.holidays[h.ID] = h
	}
}

func (db *DB) SeedLeaves(leaves ...leave.Leave) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range leaves {
		l.LeaveDate = utils.TruncateDay(l.LeaveDate)
		db.leaves[l.ID] = l
	}
}

func (db *DB) SeedAttendance(records ...attendance.Record) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, r := range records {
		r.Date = utils.TruncateDay(r.Date)
		db.attendance[r.ID] = copyRecord(r)
	}
}

func inRange(d, start, end time.Time) bool {
	d = utils.TruncateDay(d)
	return !d.Before(utils.TruncateDay(start)) && !d.After(utils.TruncateDay(end))
}

func sameDay(a, b time.Time) bool {
	return utils.TruncateDay(a).Equal(utils.TruncateDay(b))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyRecord(r attendance.Record) attendance.Record {
	r.CheckIn = copyTime(r.CheckIn)
	r.CheckOut = copyTime(r.CheckOut)
	return r
}
