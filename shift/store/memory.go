// Package store provides in-memory implementations of the engine's
// persistence interfaces, for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/clockwise/shift-engine/shift"
)

// =============================================================================
// MEMORY SHIFT STORE
// =============================================================================

type MemoryShifts struct {
	mu     sync.RWMutex
	shifts map[shift.ShiftID]shift.Shift
}

func NewMemoryShifts() *MemoryShifts {
	return &MemoryShifts{shifts: make(map[shift.ShiftID]shift.Shift)}
}

func (m *MemoryShifts) Append(_ context.Context, s shift.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[s.ID]; ok {
		return shift.ErrDuplicateShift
	}
	m.shifts[s.ID] = s
	return nil
}

// List returns a point-in-time snapshot ordered by StartTime ascending.
func (m *MemoryShifts) List(_ context.Context) ([]shift.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]shift.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *MemoryShifts) Get(_ context.Context, id shift.ShiftID) (shift.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (m *MemoryShifts) Update(_ context.Context, s shift.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[s.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	m.shifts[s.ID] = s
	return nil
}

func (m *MemoryShifts) Remove(_ context.Context, id shift.ShiftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(m.shifts, id)
	return nil
}

// =============================================================================
// MEMORY ACTIVE PUNCH STORE - The single slot
// =============================================================================

type MemoryPunch struct {
	mu    sync.RWMutex
	punch *shift.ActivePunch
}

func NewMemoryPunch() *MemoryPunch {
	return &MemoryPunch{}
}

// Get returns a copy of the slot, or nil when empty.
func (m *MemoryPunch) Get(_ context.Context) (*shift.ActivePunch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.punch == nil {
		return nil, nil
	}
	p := *m.punch
	return &p, nil
}

func (m *MemoryPunch) Set(_ context.Context, p shift.ActivePunch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punch = &p
	return nil
}

func (m *MemoryPunch) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punch = nil
	return nil
}

// =============================================================================
// MEMORY WORKPLACE / ROLE / PROFILE STORES
// =============================================================================

type MemoryWorkplaces struct {
	mu         sync.RWMutex
	workplaces map[shift.WorkplaceID]shift.Workplace
}

func NewMemoryWorkplaces() *MemoryWorkplaces {
	return &MemoryWorkplaces{workplaces: make(map[shift.WorkplaceID]shift.Workplace)}
}

func (m *MemoryWorkplaces) GetWorkplace(_ context.Context, id shift.WorkplaceID) (*shift.Workplace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workplaces[id]
	if !ok {
		return nil, shift.ErrWorkplaceNotFound
	}
	return &w, nil
}

func (m *MemoryWorkplaces) ListWorkplaces(_ context.Context) ([]shift.Workplace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]shift.Workplace, 0, len(m.workplaces))
	for _, w := range m.workplaces {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MemoryWorkplaces) SaveWorkplace(_ context.Context, w shift.Workplace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workplaces[w.ID] = w
	return nil
}

func (m *MemoryWorkplaces) DeleteWorkplace(_ context.Context, id shift.WorkplaceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workplaces[id]; !ok {
		return shift.ErrWorkplaceNotFound
	}
	delete(m.workplaces, id)
	return nil
}

type MemoryRoles struct {
	mu    sync.RWMutex
	roles map[shift.RoleID]shift.Role
}

func NewMemoryRoles() *MemoryRoles {
	return &MemoryRoles{roles: make(map[shift.RoleID]shift.Role)}
}

func (m *MemoryRoles) GetRole(_ context.Context, id shift.RoleID) (*shift.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, shift.ErrRoleNotFound
	}
	return &r, nil
}

func (m *MemoryRoles) ListRoles(_ context.Context) ([]shift.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]shift.Role, 0, len(m.roles))
	for _, r := range m.roles {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MemoryRoles) SaveRole(_ context.Context, r shift.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID] = r
	return nil
}

func (m *MemoryRoles) DeleteRole(_ context.Context, id shift.RoleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return shift.ErrRoleNotFound
	}
	delete(m.roles, id)
	return nil
}

type MemoryProfile struct {
	mu      sync.RWMutex
	profile shift.Profile
}

func NewMemoryProfile() *MemoryProfile {
	return &MemoryProfile{}
}

func (m *MemoryProfile) GetProfile(_ context.Context) (shift.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile, nil
}

func (m *MemoryProfile) SaveProfile(_ context.Context, p shift.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = p
	return nil
}
