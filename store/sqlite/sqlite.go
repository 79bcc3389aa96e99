/*
Package sqlite provides the SQLite-backed implementation of the engine's
storage interfaces.

PURPOSE:
  Implements every persistence contract the engine consumes
  (shift.ShiftStore, shift.ActivePunchStore, the Workplace/Role/Profile
  stores) against a single local database file - the "device storage"
  of the tracker.

KEY TABLES:
  shifts:       Finalized shift records, derived fields stored as written
  active_punch: Single-row slot (slot = 1) for the in-flight punch
  workplaces:   Workplace records with optional default fields
  roles:        Role records with optional default fields
  profile:      Single-row user profile (slot = 1)

SINGLE-SLOT ENFORCEMENT:
  active_punch and profile carry a CHECK (slot = 1) primary key, so the
  schema itself guarantees at most one active punch and one profile.

ENCODING:
  Decimals are stored as TEXT (exact, no float drift) and instants as
  RFC 3339 with nanoseconds. NULL columns encode the optional default
  fields.

WAL MODE:
  SQLite is opened with WAL for better crash recovery; foreign keys on.

USAGE:
  store, err := sqlite.New("./shifts.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.

SEE ALSO:
  - shift/store.go: Interface definitions
  - shift/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/clockwise/shift-engine/shift"
)

const timeLayout = time.RFC3339Nano

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for
// an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		local_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		workplace_ref TEXT,
		workplace_name TEXT NOT NULL DEFAULT '',
		role_ref TEXT,
		role_name TEXT NOT NULL DEFAULT '',
		unpaid_break INTEGER NOT NULL,
		break_minutes INTEGER NOT NULL,
		hourly_wage TEXT NOT NULL,
		cash_tips TEXT NOT NULL,
		credit_tips TEXT NOT NULL,
		worked_minutes INTEGER NOT NULL,
		worked_hours TEXT NOT NULL,
		hourly_pay TEXT NOT NULL,
		total_tips TEXT NOT NULL,
		total_earned TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		auto_closed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_local_date ON shifts(local_date);
	CREATE INDEX IF NOT EXISTS idx_shifts_start_time ON shifts(start_time);

	-- Single-slot table: the schema itself enforces at most one active punch.
	CREATE TABLE IF NOT EXISTS active_punch (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		workplace_ref TEXT,
		workplace_name TEXT NOT NULL DEFAULT '',
		role_ref TEXT,
		role_name TEXT NOT NULL DEFAULT '',
		hourly_wage TEXT NOT NULL,
		break_minutes INTEGER NOT NULL,
		unpaid_break INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS workplaces (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		default_hourly_wage TEXT,
		default_break_minutes INTEGER,
		default_unpaid_break INTEGER
	);

	CREATE TABLE IF NOT EXISTS roles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		default_hourly_wage TEXT,
		default_break_minutes INTEGER,
		default_unpaid_break INTEGER
	);

	CREATE TABLE IF NOT EXISTS profile (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		name TEXT NOT NULL DEFAULT '',
		default_hourly_wage TEXT,
		default_break_minutes INTEGER,
		default_unpaid_break INTEGER
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

func encodeTime(t time.Time) string { return t.Format(timeLayout) }

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t, nil
}

func decodeDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt decimal %q: %w", s, err)
	}
	return d, nil
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullDecimal(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	if *p {
		return 1
	}
	return 0
}

func scanOptDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decodeDecimal(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanOptInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func scanOptBool(ni sql.NullInt64) *bool {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64 != 0
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) Append(ctx context.Context, sh shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM shifts WHERE id = ?`, string(sh.ID)).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return shift.ErrDuplicateShift
	}

	var wref, rref *string
	if sh.WorkplaceRef != nil {
		v := string(*sh.WorkplaceRef)
		wref = &v
	}
	if sh.RoleRef != nil {
		v := string(*sh.RoleRef)
		rref = &v
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shifts (
			id, local_date, start_time, end_time,
			workplace_ref, workplace_name, role_ref, role_name,
			unpaid_break, break_minutes,
			hourly_wage, cash_tips, credit_tips,
			worked_minutes, worked_hours, hourly_pay, total_tips, total_earned,
			note, auto_closed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sh.ID), sh.LocalDate.String(), encodeTime(sh.StartTime), encodeTime(sh.EndTime),
		nullStr(wref), sh.WorkplaceName, nullStr(rref), sh.RoleName,
		boolToInt(sh.UnpaidBreakApplied), sh.BreakMinutesApplied,
		sh.HourlyWage.String(), sh.CashTips.String(), sh.CreditTips.String(),
		sh.WorkedMinutes, sh.WorkedHours.String(), sh.HourlyPay.String(),
		sh.TotalTips.String(), sh.TotalEarned.String(),
		sh.Note, boolToInt(sh.AutoClosed),
	)
	return err
}

const shiftColumns = `
	id, local_date, start_time, end_time,
	workplace_ref, workplace_name, role_ref, role_name,
	unpaid_break, break_minutes,
	hourly_wage, cash_tips, credit_tips,
	worked_minutes, worked_hours, hourly_pay, total_tips, total_earned,
	note, auto_closed`

func scanShift(row interface{ Scan(...any) error }) (shift.Shift, error) {
	var (
		sh                        shift.Shift
		id, localDate, start, end string
		wref, rref                sql.NullString
		unpaidBreak, autoClosed   int
		wage, cash, credit        string
		hours, pay, tips, earned  string
	)
	err := row.Scan(
		&id, &localDate, &start, &end,
		&wref, &sh.WorkplaceName, &rref, &sh.RoleName,
		&unpaidBreak, &sh.BreakMinutesApplied,
		&wage, &cash, &credit,
		&sh.WorkedMinutes, &hours, &pay, &tips, &earned,
		&sh.Note, &autoClosed,
	)
	if err != nil {
		return shift.Shift{}, err
	}

	sh.ID = shift.ShiftID(id)
	if sh.LocalDate, err = shift.ParseLocalDate(localDate); err != nil {
		return shift.Shift{}, err
	}
	if sh.StartTime, err = decodeTime(start); err != nil {
		return shift.Shift{}, err
	}
	if sh.EndTime, err = decodeTime(end); err != nil {
		return shift.Shift{}, err
	}
	if wref.Valid {
		v := shift.WorkplaceID(wref.String)
		sh.WorkplaceRef = &v
	}
	if rref.Valid {
		v := shift.RoleID(rref.String)
		sh.RoleRef = &v
	}
	sh.UnpaidBreakApplied = unpaidBreak != 0
	sh.AutoClosed = autoClosed != 0

	if sh.HourlyWage, err = decodeDecimal(wage); err != nil {
		return shift.Shift{}, err
	}
	if sh.CashTips, err = decodeDecimal(cash); err != nil {
		return shift.Shift{}, err
	}
	if sh.CreditTips, err = decodeDecimal(credit); err != nil {
		return shift.Shift{}, err
	}
	if sh.WorkedHours, err = decodeDecimal(hours); err != nil {
		return shift.Shift{}, err
	}
	if sh.HourlyPay, err = decodeDecimal(pay); err != nil {
		return shift.Shift{}, err
	}
	if sh.TotalTips, err = decodeDecimal(tips); err != nil {
		return shift.Shift{}, err
	}
	if sh.TotalEarned, err = decodeDecimal(earned); err != nil {
		return shift.Shift{}, err
	}
	return sh, nil
}

func (s *Store) List(ctx context.Context) ([]shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sh)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, id shift.ShiftID) (shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, string(id))
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, err
}

func (s *Store) Update(ctx context.Context, sh shift.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wref, rref *string
	if sh.WorkplaceRef != nil {
		v := string(*sh.WorkplaceRef)
		wref = &v
	}
	if sh.RoleRef != nil {
		v := string(*sh.RoleRef)
		rref = &v
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET
			local_date = ?, start_time = ?, end_time = ?,
			workplace_ref = ?, workplace_name = ?, role_ref = ?, role_name = ?,
			unpaid_break = ?, break_minutes = ?,
			hourly_wage = ?, cash_tips = ?, credit_tips = ?,
			worked_minutes = ?, worked_hours = ?, hourly_pay = ?, total_tips = ?, total_earned = ?,
			note = ?, auto_closed = ?
		WHERE id = ?`,
		sh.LocalDate.String(), encodeTime(sh.StartTime), encodeTime(sh.EndTime),
		nullStr(wref), sh.WorkplaceName, nullStr(rref), sh.RoleName,
		boolToInt(sh.UnpaidBreakApplied), sh.BreakMinutesApplied,
		sh.HourlyWage.String(), sh.CashTips.String(), sh.CreditTips.String(),
		sh.WorkedMinutes, sh.WorkedHours.String(), sh.HourlyPay.String(),
		sh.TotalTips.String(), sh.TotalEarned.String(),
		sh.Note, boolToInt(sh.AutoClosed),
		string(sh.ID),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id shift.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// =============================================================================
// ACTIVE PUNCH STORE - Single-row slot
// =============================================================================

func (s *Store) GetActivePunch(ctx context.Context) (*shift.ActivePunch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, workplace_ref, workplace_name, role_ref, role_name,
		       hourly_wage, break_minutes, unpaid_break, note
		FROM active_punch WHERE slot = 1`)

	var (
		p           shift.ActivePunch
		id, started string
		wref, rref  sql.NullString
		wage        string
		unpaid      int
	)
	err := row.Scan(&id, &started, &wref, &p.WorkplaceName, &rref, &p.RoleName,
		&wage, &p.BreakMinutes, &unpaid, &p.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.ID = shift.PunchID(id)
	if p.StartedAt, err = decodeTime(started); err != nil {
		return nil, err
	}
	if wref.Valid {
		v := shift.WorkplaceID(wref.String)
		p.WorkplaceRef = &v
	}
	if rref.Valid {
		v := shift.RoleID(rref.String)
		p.RoleRef = &v
	}
	if p.HourlyWage, err = decodeDecimal(wage); err != nil {
		return nil, err
	}
	p.UnpaidBreak = unpaid != 0
	return &p, nil
}

func (s *Store) SetActivePunch(ctx context.Context, p shift.ActivePunch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wref, rref *string
	if p.WorkplaceRef != nil {
		v := string(*p.WorkplaceRef)
		wref = &v
	}
	if p.RoleRef != nil {
		v := string(*p.RoleRef)
		rref = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_punch (slot, id, started_at, workplace_ref, workplace_name,
			role_ref, role_name, hourly_wage, break_minutes, unpaid_break, note)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id, started_at = excluded.started_at,
			workplace_ref = excluded.workplace_ref, workplace_name = excluded.workplace_name,
			role_ref = excluded.role_ref, role_name = excluded.role_name,
			hourly_wage = excluded.hourly_wage, break_minutes = excluded.break_minutes,
			unpaid_break = excluded.unpaid_break, note = excluded.note`,
		string(p.ID), encodeTime(p.StartedAt), nullStr(wref), p.WorkplaceName,
		nullStr(rref), p.RoleName, p.HourlyWage.String(), p.BreakMinutes,
		boolToInt(p.UnpaidBreak), p.Note,
	)
	return err
}

func (s *Store) ClearActivePunch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM active_punch WHERE slot = 1`)
	return err
}

// PunchSlot adapts the store to the shift.ActivePunchStore interface.
func (s *Store) PunchSlot() shift.ActivePunchStore { return punchSlot{s} }

type punchSlot struct{ s *Store }

func (p punchSlot) Get(ctx context.Context) (*shift.ActivePunch, error) {
	return p.s.GetActivePunch(ctx)
}

func (p punchSlot) Set(ctx context.Context, punch shift.ActivePunch) error {
	return p.s.SetActivePunch(ctx, punch)
}

func (p punchSlot) Clear(ctx context.Context) error {
	return p.s.ClearActivePunch(ctx)
}

// =============================================================================
// WORKPLACES
// =============================================================================

func (s *Store) GetWorkplace(ctx context.Context, id shift.WorkplaceID) (*shift.Workplace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, default_hourly_wage, default_break_minutes, default_unpaid_break
		FROM workplaces WHERE id = ?`, string(id))
	w, err := scanWorkplace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shift.ErrWorkplaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func scanWorkplace(row interface{ Scan(...any) error }) (*shift.Workplace, error) {
	var (
		w       shift.Workplace
		id      string
		wage    sql.NullString
		breakM  sql.NullInt64
		unpaidB sql.NullInt64
	)
	if err := row.Scan(&id, &w.Name, &wage, &breakM, &unpaidB); err != nil {
		return nil, err
	}
	w.ID = shift.WorkplaceID(id)
	d, err := scanOptDecimal(wage)
	if err != nil {
		return nil, err
	}
	w.DefaultHourlyWage = d
	w.DefaultBreakMinutes = scanOptInt(breakM)
	w.DefaultUnpaidBreak = scanOptBool(unpaidB)
	return &w, nil
}

func (s *Store) ListWorkplaces(ctx context.Context) ([]shift.Workplace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, default_hourly_wage, default_break_minutes, default_unpaid_break
		FROM workplaces ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []shift.Workplace
	for rows.Next() {
		w, err := scanWorkplace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

func (s *Store) SaveWorkplace(ctx context.Context, w shift.Workplace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workplaces (id, name, default_hourly_wage, default_break_minutes, default_unpaid_break)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			default_hourly_wage = excluded.default_hourly_wage,
			default_break_minutes = excluded.default_break_minutes,
			default_unpaid_break = excluded.default_unpaid_break`,
		string(w.ID), w.Name, nullDecimal(w.DefaultHourlyWage),
		nullInt(w.DefaultBreakMinutes), nullBool(w.DefaultUnpaidBreak),
	)
	return err
}

func (s *Store) DeleteWorkplace(ctx context.Context, id shift.WorkplaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM workplaces WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shift.ErrWorkplaceNotFound
	}
	return nil
}

// =============================================================================
// ROLES
// =============================================================================

func (s *Store) GetRole(ctx context.Context, id shift.RoleID) (*shift.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, default_hourly_wage, default_break_minutes, default_unpaid_break
		FROM roles WHERE id = ?`, string(id))
	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shift.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func scanRole(row interface{ Scan(...any) error }) (*shift.Role, error) {
	var (
		r       shift.Role
		id      string
		wage    sql.NullString
		breakM  sql.NullInt64
		unpaidB sql.NullInt64
	)
	if err := row.Scan(&id, &r.Name, &wage, &breakM, &unpaidB); err != nil {
		return nil, err
	}
	r.ID = shift.RoleID(id)
	d, err := scanOptDecimal(wage)
	if err != nil {
		return nil, err
	}
	r.DefaultHourlyWage = d
	r.DefaultBreakMinutes = scanOptInt(breakM)
	r.DefaultUnpaidBreak = scanOptBool(unpaidB)
	return &r, nil
}

func (s *Store) ListRoles(ctx context.Context) ([]shift.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, default_hourly_wage, default_break_minutes, default_unpaid_break
		FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []shift.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func (s *Store) SaveRole(ctx context.Context, r shift.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roles (id, name, default_hourly_wage, default_break_minutes, default_unpaid_break)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			default_hourly_wage = excluded.default_hourly_wage,
			default_break_minutes = excluded.default_break_minutes,
			default_unpaid_break = excluded.default_unpaid_break`,
		string(r.ID), r.Name, nullDecimal(r.DefaultHourlyWage),
		nullInt(r.DefaultBreakMinutes), nullBool(r.DefaultUnpaidBreak),
	)
	return err
}

func (s *Store) DeleteRole(ctx context.Context, id shift.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shift.ErrRoleNotFound
	}
	return nil
}

// =============================================================================
// PROFILE - Single row
// =============================================================================

func (s *Store) GetProfile(ctx context.Context) (shift.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT name, default_hourly_wage, default_break_minutes, default_unpaid_break
		FROM profile WHERE slot = 1`)

	var (
		p       shift.Profile
		wage    sql.NullString
		breakM  sql.NullInt64
		unpaidB sql.NullInt64
	)
	err := row.Scan(&p.Name, &wage, &breakM, &unpaidB)
	if errors.Is(err, sql.ErrNoRows) {
		// No profile saved yet: an empty profile with no defaults set.
		return shift.Profile{}, nil
	}
	if err != nil {
		return shift.Profile{}, err
	}

	d, err := scanOptDecimal(wage)
	if err != nil {
		return shift.Profile{}, err
	}
	p.DefaultHourlyWage = d
	p.DefaultBreakMinutes = scanOptInt(breakM)
	p.DefaultUnpaidBreak = scanOptBool(unpaidB)
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p shift.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (slot, name, default_hourly_wage, default_break_minutes, default_unpaid_break)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			name = excluded.name,
			default_hourly_wage = excluded.default_hourly_wage,
			default_break_minutes = excluded.default_break_minutes,
			default_unpaid_break = excluded.default_unpaid_break`,
		p.Name, nullDecimal(p.DefaultHourlyWage),
		nullInt(p.DefaultBreakMinutes), nullBool(p.DefaultUnpaidBreak),
	)
	return err
}

// =============================================================================
// RESET - Used by restore
// =============================================================================

// Reset wipes every table. Destructive; callers gate this behind an
// explicit confirmation.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"shifts", "active_punch", "workplaces", "roles", "profile"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}
