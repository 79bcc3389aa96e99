/*
lifecycle_test.go - Scenario tests for the punch state machine

These tests exercise the full punch lifecycle against the in-memory
stores with a fake clock: the round trip, the 14-hour auto-close, the
single-active-punch invariant and the racing-finalizer idempotency.
Each test states its scenario in GIVEN/WHEN/THEN form.
*/
package shift_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise/shift-engine/shift"
	"github.com/clockwise/shift-engine/shift/store"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock   *fakeClock
	punches *store.MemoryPunch
	shifts  *store.MemoryShifts
	lc      *shift.PunchLifecycle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newFakeClock(time.Date(2024, time.May, 10, 18, 0, 0, 0, time.UTC))
	punches := store.NewMemoryPunch()
	shifts := store.NewMemoryShifts()
	return &fixture{
		clock:   clock,
		punches: punches,
		shifts:  shifts,
		lc:      shift.NewPunchLifecycle(punches, shifts, clock, time.UTC),
	}
}

var testWorkplace = shift.WorkplaceID("wp-1")

func startInput(wage string) shift.StartInput {
	return shift.StartInput{
		WorkplaceRef:  &testWorkplace,
		WorkplaceName: "Diner",
		Defaults: shift.ResolvedDefaults{
			HourlyWage:   dec(wage),
			BreakMinutes: 0,
			UnpaidBreak:  false,
		},
	}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestPunchRoundTrip(t *testing.T) {
	// GIVEN: a punch started with locked wage 10, no break
	f := newFixture(t)
	ctx := context.Background()

	punch, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	assert.Equal(t, "Diner", punch.WorkplaceName)

	// WHEN: stopping 8h1m30s later with 5 cash + 5 credit tips
	f.clock.Advance(8*time.Hour + 1*time.Minute + 30*time.Second)
	s, err := f.lc.Stop(ctx, shift.StopInput{CashTips: dec("5"), CreditTips: dec("5")})
	require.NoError(t, err)

	// THEN: worked minutes match elapsed wall clock (rounded), tips 10.00
	assert.Equal(t, 482, s.WorkedMinutes)
	assertDecEqual(t, dec("10"), s.TotalTips)
	assert.False(t, s.AutoClosed)
	assert.Equal(t, "2024-05-10", s.LocalDate.String())
	assert.True(t, s.EndTime.After(s.StartTime))

	// AND: the slot is cleared and the shift is stored
	active, err := f.punches.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	stored, err := f.shifts.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, s.ID, stored[0].ID)
}

func TestStop_AppliesLockedBreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := startInput("12")
	in.Defaults.BreakMinutes = 30
	in.Defaults.UnpaidBreak = true
	_, err := f.lc.Start(ctx, in)
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour)
	s, err := f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	assert.Equal(t, 450, s.WorkedMinutes) // 480 raw - 30 break
	assertDecEqual(t, dec("7.5"), s.WorkedHours)
	assertDecEqual(t, dec("90"), s.HourlyPay)
}

func TestStop_LocalDateComesFromStart_Overnight(t *testing.T) {
	// GIVEN: a punch-in at 22:00 that runs past midnight
	f := newFixture(t)
	ctx := context.Background()
	f.clock.now = time.Date(2024, time.May, 10, 22, 0, 0, 0, time.UTC)

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour) // ends 06:00 on May 11

	s, err := f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	// THEN: attributed to the day it started, never the end day
	assert.Equal(t, "2024-05-10", s.LocalDate.String())
}

// =============================================================================
// START COLLISIONS AND VALIDATION
// =============================================================================

func TestStart_RejectsWhenAlreadyActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)

	_, err = f.lc.Start(ctx, startInput("15"))
	assert.ErrorIs(t, err, shift.ErrPunchActive)

	// The original punch survives untouched.
	active, err := f.punches.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assertDecEqual(t, dec("10"), active.HourlyWage)
}

func TestStart_RequiresWorkplace(t *testing.T) {
	f := newFixture(t)

	_, err := f.lc.Start(context.Background(), shift.StartInput{})
	var verr *shift.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "workplace", verr.Field)
}

func TestStart_SanitizesWageAndBreak(t *testing.T) {
	f := newFixture(t)
	in := startInput("10")
	in.Defaults.HourlyWage = dec("-4")
	in.Defaults.BreakMinutes = 999

	punch, err := f.lc.Start(context.Background(), in)
	require.NoError(t, err)
	assertDecEqual(t, dec("0"), punch.HourlyWage)
	assert.Equal(t, shift.MaxBreakMinutes, punch.BreakMinutes)
}

func TestStopAndCancel_FromIdle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Stop(ctx, shift.StopInput{})
	assert.ErrorIs(t, err, shift.ErrNoActivePunch)

	assert.ErrorIs(t, f.lc.Cancel(ctx), shift.ErrNoActivePunch)
}

// =============================================================================
// AUTO-CLOSE
// =============================================================================

func TestCheckAutoClose_UnderCapIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)

	f.clock.Advance(13*time.Hour + 59*time.Minute)
	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	assert.False(t, result.Closed)

	active, err := f.punches.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, active, "punch must survive an under-cap check")
}

func TestCheckAutoClose_CapsAtExactlyFourteenHours(t *testing.T) {
	// GIVEN: a punch that has been running 15 hours
	f := newFixture(t)
	ctx := context.Background()

	punch, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	f.clock.Advance(15 * time.Hour)

	// WHEN: the auto-close check finally runs
	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)

	// THEN: the shift ends at startedAt + 14h exactly, NOT at "now"
	require.True(t, result.Closed)
	s := result.Shift
	assert.Equal(t, punch.StartedAt.Add(14*time.Hour), s.EndTime)
	assert.Equal(t, 14*60, s.WorkedMinutes)
	assert.True(t, s.AutoClosed)
	assertDecEqual(t, dec("0"), s.TotalTips)
	assert.Contains(t, s.Note, shift.AutoCloseNote)

	// AND: a second check observes Idle and no-ops
	again, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	assert.False(t, again.Closed)

	stored, err := f.shifts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1, "finalized exactly once")
}

func TestCheckAutoClose_AppendsMarkerToExistingNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := startInput("10")
	in.Note = "double brunch"
	_, err := f.lc.Start(ctx, in)
	require.NoError(t, err)

	f.clock.Advance(14 * time.Hour)
	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	require.True(t, result.Closed)
	assert.Equal(t, "double brunch "+shift.AutoCloseNote, result.Shift.Note)
}

func TestCheckAutoClose_IdleIsNoOp(t *testing.T) {
	f := newFixture(t)
	result, err := f.lc.CheckAutoClose(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Closed)
	assert.Nil(t, result.Shift)
}

// =============================================================================
// SINGLE ACTIVE PUNCH INVARIANT
// =============================================================================

func TestSingleActivePunchInvariant(t *testing.T) {
	// Property: after any sequence of lifecycle calls the slot holds
	// exactly one record (Active) or none (Idle), never more.
	f := newFixture(t)
	ctx := context.Background()

	checkSlot := func(wantActive bool) {
		t.Helper()
		active, err := f.punches.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantActive, active != nil)
	}

	checkSlot(false)

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	checkSlot(true)

	_, _ = f.lc.Start(ctx, startInput("12")) // rejected
	checkSlot(true)

	f.clock.Advance(time.Hour)
	_, err = f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)
	checkSlot(false)

	_, err = f.lc.Start(ctx, startInput("11"))
	require.NoError(t, err)
	checkSlot(true)

	require.NoError(t, f.lc.Cancel(ctx))
	checkSlot(false)

	_, err = f.lc.Start(ctx, startInput("11"))
	require.NoError(t, err)
	f.clock.Advance(20 * time.Hour)
	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	assert.True(t, result.Closed)
	checkSlot(false)
}

// =============================================================================
// RACING FINALIZERS
// =============================================================================

func TestFinalizeRace_SecondCallerObservesIdle(t *testing.T) {
	// GIVEN: an over-cap punch; the app resumes (auto-close fires)
	// exactly as the user taps "Punch Out"
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	f.clock.Advance(15 * time.Hour)

	// WHEN: auto-close wins the race
	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	require.True(t, result.Closed)

	// THEN: the losing Stop observes Idle and no-ops, never a second append
	_, err = f.lc.Stop(ctx, shift.StopInput{CashTips: dec("9")})
	assert.ErrorIs(t, err, shift.ErrNoActivePunch)

	stored, err := f.shifts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestFinalizeRace_StopWinsOverAutoClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	f.clock.Advance(15 * time.Hour)

	_, err = f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	result, err := f.lc.CheckAutoClose(ctx)
	require.NoError(t, err)
	assert.False(t, result.Closed)

	stored, err := f.shifts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

// =============================================================================
// EDITING THE ACTIVE PUNCH
// =============================================================================

func TestEditActive_RelocksFieldsForFinalization(t *testing.T) {
	// GIVEN: an active punch locked at wage 10
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)

	// WHEN: the user explicitly edits the wage before punching out
	wage := dec("18")
	_, err = f.lc.EditActive(ctx, shift.PunchEdits{HourlyWage: &wage})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	s, err := f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	// THEN: the edited value is what pay was computed from
	assertDecEqual(t, dec("18"), s.HourlyWage)
	assertDecEqual(t, dec("18"), s.HourlyPay)
}

func TestEditActive_DefaultsChangesDoNotLeakIn(t *testing.T) {
	// Locked-at-punch-in invariant: nothing outside EditActive changes
	// the punch. (Resolution happens before Start; re-resolving later
	// has no path into an active punch.)
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	s, err := f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)
	assertDecEqual(t, dec("10"), s.HourlyWage)
}

// =============================================================================
// PERSISTENCE FAILURES
// =============================================================================

// failingPunchStore injects failures into the slot operations.
type failingPunchStore struct {
	shift.ActivePunchStore
	failSet   bool
	failClear bool
}

var errDisk = errors.New("disk unavailable")

func (f *failingPunchStore) Set(ctx context.Context, p shift.ActivePunch) error {
	if f.failSet {
		return errDisk
	}
	return f.ActivePunchStore.Set(ctx, p)
}

func (f *failingPunchStore) Clear(ctx context.Context) error {
	if f.failClear {
		return errDisk
	}
	return f.ActivePunchStore.Clear(ctx)
}

func TestStart_PersistenceFailureSurfacesAndStaysIdle(t *testing.T) {
	clock := newFakeClock(time.Date(2024, time.May, 10, 18, 0, 0, 0, time.UTC))
	punches := &failingPunchStore{ActivePunchStore: store.NewMemoryPunch(), failSet: true}
	lc := shift.NewPunchLifecycle(punches, store.NewMemoryShifts(), clock, time.UTC)

	_, err := lc.Start(context.Background(), startInput("10"))

	var perr *shift.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, errDisk)

	// No transition happened: the next Start is not a conflict.
	punches.failSet = false
	_, err = lc.Start(context.Background(), startInput("10"))
	assert.NoError(t, err)
}

func TestStop_FailedClearDoesNotDoubleAppendOnRetry(t *testing.T) {
	// GIVEN: append succeeds but the slot clear fails mid-finalize
	clock := newFakeClock(time.Date(2024, time.May, 10, 18, 0, 0, 0, time.UTC))
	punches := &failingPunchStore{ActivePunchStore: store.NewMemoryPunch()}
	shifts := store.NewMemoryShifts()
	lc := shift.NewPunchLifecycle(punches, shifts, clock, time.UTC)
	ctx := context.Background()

	_, err := lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	clock.Advance(time.Hour)

	punches.failClear = true
	_, err = lc.Stop(ctx, shift.StopInput{})
	var perr *shift.PersistenceError
	require.ErrorAs(t, err, &perr)

	// WHEN: the user retries later, after the store recovers
	punches.failClear = false
	clock.Advance(30 * time.Minute)
	s, err := lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	// THEN: still exactly one stored shift, and the retry returns the
	// first finalization's record rather than recomputing at the later
	// clock time
	stored, err := shifts.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, s.ID, stored[0].ID)
	assert.Equal(t, 60, s.WorkedMinutes)
	assert.True(t, s.EndTime.Equal(stored[0].EndTime))
	assert.Equal(t, stored[0].WorkedMinutes, s.WorkedMinutes)
}

// =============================================================================
// NOTIFIER
// =============================================================================

func TestNotifier_PublishesLifecycleEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var kinds []shift.PunchEventKind
	unsubscribe := f.lc.Notifier().Subscribe(func(e shift.PunchEvent) {
		kinds = append(kinds, e.Kind)
	})

	_, err := f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.lc.Stop(ctx, shift.StopInput{})
	require.NoError(t, err)

	assert.Equal(t, []shift.PunchEventKind{shift.PunchStarted, shift.PunchStopped}, kinds)

	// After unsubscribe, no further deliveries.
	unsubscribe()
	_, err = f.lc.Start(ctx, startInput("10"))
	require.NoError(t, err)
	assert.Len(t, kinds, 2)
}
