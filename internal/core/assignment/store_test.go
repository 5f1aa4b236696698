package assignment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// memStore は排他制約を模したインメモリの配置ストアです。
type memStore struct {
	mu          sync.Mutex
	stations    map[int64]*station.Station
	employees   map[int64]*employee.Employee
	assignments []*Assignment
	audit       []*AuditEntry
	nextID      int64

	// staleReads が true の場合 FindOverlapping は常に空を返します（競合状態の再現用）。
	staleReads bool
	createErr  error
}

func newMemStore() *memStore {
	return &memStore{
		stations: map[int64]*station.Station{
			1: {ID: 1, Name: "Check-in 1", Number: 1, Type: station.TypeCheckIn, ServiceID: 10, Active: true},
			2: {ID: 2, Name: "Triage 1", Number: 1, Type: station.TypeTriage, ServiceID: 20, Active: true},
			3: {ID: 3, Name: "Triage 2", Number: 2, Type: station.TypeTriage, ServiceID: 20, Active: true},
			4: {ID: 4, Name: "Pharmacy", Number: 1, Type: station.TypePharmacy, ServiceID: 40, Active: true},
			5: {ID: 5, Name: "Old Lab", Number: 1, Type: station.TypeLaboratory, ServiceID: 30, Active: false},
		},
		employees: map[int64]*employee.Employee{
			5:  {ID: 5, FacilityID: 1, Name: "Maria Santos", Role: employee.RoleNurse, Active: true},
			6:  {ID: 6, FacilityID: 1, Name: "Ana Reyes", Role: employee.RoleMidwife, Active: true},
			7:  {ID: 7, FacilityID: 1, Name: "Jose Cruz", Role: employee.RoleNurse, Active: true},
			8:  {ID: 8, FacilityID: 1, Name: "Liza Tan", Role: employee.RolePharmacist, Active: true},
			9:  {ID: 9, FacilityID: 1, Name: "Ramon Dela Cruz", Role: employee.RoleNurse, Active: false},
			10: {ID: 10, FacilityID: 2, Name: "Grace Lim", Role: employee.RoleNurse, Active: true},
		},
	}
}

func cloneAssignment(a *Assignment) *Assignment {
	c := *a
	c.EndDate = cloneDate(a.EndDate)
	return &c
}

func (m *memStore) decorate(a *Assignment) *Assignment {
	c := cloneAssignment(a)
	if st, ok := m.stations[a.StationID]; ok {
		c.StationName = st.Name
	}
	if emp, ok := m.employees[a.EmployeeID]; ok {
		c.EmployeeName = emp.Name
	}
	return c
}

func (m *memStore) FindOverlapping(_ context.Context, q OverlapQuery) ([]*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staleReads {
		return nil, nil
	}

	var out []*Assignment
	for _, a := range m.assignments {
		if !a.Active || !a.Range().Overlaps(q.Range) {
			continue
		}
		if (q.Subject == SubjectEmployee && a.EmployeeID == q.SubjectID) ||
			(q.Subject == SubjectStation && a.StationID == q.SubjectID) {
			out = append(out, m.decorate(a))
		}
	}
	return out, nil
}

func (m *memStore) LockStation(_ context.Context, id int64) (*station.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stations[id]
	if !ok {
		return nil, station.ErrStationNotFound
	}
	c := *st
	return &c, nil
}

func (m *memStore) LockEmployee(_ context.Context, id int64) (*employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	c := *emp
	return &c, nil
}

func (m *memStore) FindActiveAt(_ context.Context, stationID int64, date time.Time) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.assignments {
		if a.StationID == stationID && a.ActiveOn(date) {
			return m.decorate(a), nil
		}
	}
	return nil, ErrAssignmentNotFound
}

func (m *memStore) Create(_ context.Context, a *Assignment) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}
	if err := m.violatesExclusion(a, 0); err != nil {
		return nil, err
	}

	m.nextID++
	stored := cloneAssignment(a)
	stored.ID = m.nextID
	m.assignments = append(m.assignments, stored)
	return m.decorate(stored), nil
}

func (m *memStore) violatesExclusion(candidate *Assignment, selfID int64) error {
	if !candidate.Active {
		return nil
	}
	for _, a := range m.assignments {
		if a.ID == selfID || !a.Active || !a.Range().Overlaps(candidate.Range()) {
			continue
		}
		if a.StationID == candidate.StationID {
			return &ConflictError{Subject: SubjectStation}
		}
		if a.EmployeeID == candidate.EmployeeID {
			return &ConflictError{Subject: SubjectEmployee}
		}
	}
	return nil
}

func (m *memStore) find(id int64) *Assignment {
	for _, a := range m.assignments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *memStore) UpdateEndDate(_ context.Context, id int64, end time.Time) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.find(id)
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	d := Day(end)
	a.EndDate = &d
	return m.decorate(a), nil
}

func (m *memStore) Deactivate(_ context.Context, id int64) (*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.find(id)
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	a.Active = false
	return m.decorate(a), nil
}

func (m *memStore) AppendAudit(_ context.Context, entry *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *entry
	c.ID = int64(len(m.audit) + 1)
	m.audit = append(m.audit, &c)
	return nil
}

func (m *memStore) StationsAsOf(_ context.Context, date time.Time) ([]*StationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.stations))
	for id := range m.stations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	views := make([]*StationView, 0, len(ids))
	for _, id := range ids {
		view := &StationView{Station: *m.stations[id]}
		for _, a := range m.assignments {
			if a.StationID == id && a.ActiveOn(date) {
				view.Assignment = m.decorate(a)
				emp := *m.employees[a.EmployeeID]
				view.Employee = &emp
				break
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (m *memStore) ListByStation(_ context.Context, stationID int64) ([]*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Assignment
	for _, a := range m.assignments {
		if a.StationID == stationID {
			out = append(out, m.decorate(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) ListActiveByEmployee(_ context.Context, employeeID int64, from time.Time) ([]*Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Assignment
	for _, a := range m.assignments {
		if a.EmployeeID != employeeID || !a.Active {
			continue
		}
		if a.EndDate != nil && a.EndDate.Before(Day(from)) {
			continue
		}
		out = append(out, m.decorate(a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// rows はステーションの配置を ID 順に返します。
func (m *memStore) rows(stationID int64) []*Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Assignment
	for _, a := range m.assignments {
		if a.StationID == stationID {
			out = append(out, cloneAssignment(a))
		}
	}
	return out
}

func (m *memStore) auditActions() []AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AuditAction, 0, len(m.audit))
	for _, e := range m.audit {
		out = append(out, e.Action)
	}
	return out
}

// seed は検査を通さずに配置を直接登録します。
func (m *memStore) seed(t *testing.T, a Assignment) *Assignment {
	t.Helper()

	if a.Shift == (Shift{}) {
		a.Shift = Shift{Start: "08:00", End: "17:00"}
	}
	created, err := m.Create(context.Background(), &a)
	if err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
	return created
}

// memStations は memStore を station.Repository として公開します。
type memStations struct {
	store *memStore
}

func (r memStations) FindByID(ctx context.Context, id int64) (*station.Station, error) {
	return r.store.LockStation(ctx, id)
}

func (r memStations) List(_ context.Context, filter station.ListStationsFilter) ([]*station.Station, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*station.Station
	for _, st := range r.store.stations {
		if filter.ActiveOnly && !st.Active {
			continue
		}
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStations) UpdateActive(_ context.Context, id int64, active bool) (*station.Station, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	st, ok := r.store.stations[id]
	if !ok {
		return nil, station.ErrStationNotFound
	}
	st.Active = active
	c := *st
	return &c, nil
}

// memEmployees は memStore を employee.Repository として公開します。
type memEmployees struct {
	store *memStore
}

func (r memEmployees) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return r.store.LockEmployee(ctx, id)
}

func (r memEmployees) ListActiveByFacility(_ context.Context, filter employee.ListActiveFilter) ([]*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*employee.Employee
	for _, emp := range r.store.employees {
		if !emp.Active || emp.FacilityID != filter.FacilityID {
			continue
		}
		if len(filter.Roles) > 0 && !containsRole(filter.Roles, emp.Role) {
			continue
		}
		c := *emp
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsRole(roles []employee.Role, role employee.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// serialTx は行ロックを模して読み書きトランザクションを直列化します。
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (t *serialTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

// assertExclusive は有効な配置同士がステーション・職員のどちらでも重ならないことを検証します。
func assertExclusive(t *testing.T, m *memStore) {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.assignments {
		if !a.Active {
			continue
		}
		if !a.Range().Valid() {
			t.Errorf("assignment %d has inverted range %s", a.ID, a.Range())
		}
		for _, b := range m.assignments[i+1:] {
			if !b.Active || !a.Range().Overlaps(b.Range()) {
				continue
			}
			if a.StationID == b.StationID {
				t.Errorf("station %d double-booked by assignments %d and %d", a.StationID, a.ID, b.ID)
			}
			if a.EmployeeID == b.EmployeeID {
				t.Errorf("employee %d double-booked by assignments %d and %d", a.EmployeeID, a.ID, b.ID)
			}
		}
	}
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()

	d, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("parse date %q: %v", raw, err)
	}
	return d
}

func mustDatePtr(t *testing.T, raw string) *time.Time {
	t.Helper()

	d := mustDate(t, raw)
	return &d
}
