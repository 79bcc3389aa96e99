/*
lifecycle.go - The punch (clock-in/clock-out) state machine

PURPOSE:
  Governs the single active punch: Start, Stop, Cancel, the 14-hour
  auto-close safety net for forgotten punch-outs, and explicit edits to
  an active punch's locked fields. Finalizing a punch is the only way
  the timer flow ever produces a Shift.

STATES:
  Idle   - no ActivePunch exists
  Active - exactly one ActivePunch exists
  Stop, Cancel and auto-close all return to Idle; a new Start re-enters
  Active. At most one ActivePunch exists system-wide at any time.

THE STORE IS THE STATE:
  The lifecycle keeps NO in-memory copy of the active punch. Every
  transition re-reads ActivePunchStore first and treats "already
  cleared" as Idle. That re-read is what makes racing finalizers safe:
  when CheckAutoClose and a user-initiated Stop land in the same
  moment, exactly one of them finds the punch and finalizes it; the
  other observes Idle and no-ops. A Shift is produced exactly once per
  punch, never twice.

ATOMICITY:
  Transition functions are pure except for their store writes. A store
  failure surfaces to the caller and the transition is NOT considered
  to have happened - there is no in-memory state to desynchronize.

AUTO-CLOSE:
  A punch left running for 14 hours is force-finalized with
  endTime = startedAt + 14h EXACTLY (not "now" - however late the
  check actually runs, the recorded shift is always exactly 14 hours
  raw), zero tips, autoClosed=true and a fixed note marker. The cap is
  a constant, not configurable.

SEE ALSO:
  - store.go: ActivePunchStore / ShiftStore contracts
  - manual.go: The non-timer path for creating shifts
*/
package shift

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// autoCloseCap is the fixed ceiling on a live punch. Not configurable.
const autoCloseCap = 14 * time.Hour

// AutoCloseNote is the marker appended to the note of an auto-closed
// shift so the user can spot (and correct) forgotten punch-outs.
const AutoCloseNote = "[auto-closed after 14h]"

// =============================================================================
// EVENTS - Cross-screen reactivity without ambient globals
// =============================================================================

type PunchEventKind string

const (
	PunchStarted    PunchEventKind = "started"
	PunchStopped    PunchEventKind = "stopped"
	PunchCanceled   PunchEventKind = "canceled"
	PunchAutoClosed PunchEventKind = "auto_closed"
	PunchEdited     PunchEventKind = "edited"
)

// PunchEvent is published on every lifecycle transition. Punch is set
// for started/edited events, Shift for stopped/auto-closed ones.
type PunchEvent struct {
	Kind  PunchEventKind
	Punch *ActivePunch
	Shift *Shift
}

// Notifier is a minimal pub-sub for punch state changes. Subscribers
// are invoked synchronously, after the transition's store writes have
// succeeded.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(PunchEvent)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(PunchEvent))}
}

// Subscribe registers fn and returns an unsubscribe function.
func (n *Notifier) Subscribe(fn func(PunchEvent)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *Notifier) publish(e PunchEvent) {
	n.mu.Lock()
	fns := make([]func(PunchEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// PunchLifecycle orchestrates punch transitions against the injected
// stores. Construct with NewPunchLifecycle; the zero value is not usable.
type PunchLifecycle struct {
	punches  ActivePunchStore
	shifts   ShiftStore
	clock    Clock
	loc      *time.Location
	notifier *Notifier
}

// NewPunchLifecycle wires the state machine to its stores. A nil clock
// defaults to the system clock, a nil location to time.Local.
func NewPunchLifecycle(punches ActivePunchStore, shifts ShiftStore, clock Clock, loc *time.Location) *PunchLifecycle {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &PunchLifecycle{
		punches:  punches,
		shifts:   shifts,
		clock:    clock,
		loc:      loc,
		notifier: NewNotifier(),
	}
}

// Notifier exposes the event stream for UI subscriptions.
func (pl *PunchLifecycle) Notifier() *Notifier { return pl.notifier }

// Active returns the current active punch, or nil when Idle.
func (pl *PunchLifecycle) Active(ctx context.Context) (*ActivePunch, error) {
	return pl.punches.Get(ctx)
}

// =============================================================================
// START - Idle -> Active
// =============================================================================

// StartInput carries the form state at punch-in. Defaults come from
// ResolveDefaults (possibly user-overridden on the form); the names are
// display snapshots captured here and never recomputed.
type StartInput struct {
	WorkplaceRef  *WorkplaceID
	WorkplaceName string
	RoleRef       *RoleID
	RoleName      string
	Defaults      ResolvedDefaults
	Note          string
}

// Start opens a punch. It fails with ErrPunchActive if one is already
// active: replacing a live punch implicitly would silently discard
// worked time, so collisions are rejected and the user must stop or
// cancel first.
func (pl *PunchLifecycle) Start(ctx context.Context, in StartInput) (*ActivePunch, error) {
	if in.WorkplaceRef == nil {
		return nil, &ValidationError{Field: "workplace", Message: "a workplace must be selected"}
	}

	existing, err := pl.punches.Get(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "punch.start", Err: err}
	}
	if existing != nil {
		return nil, ErrPunchActive
	}

	punch := ActivePunch{
		ID:            NewPunchID(),
		StartedAt:     pl.clock.Now(),
		WorkplaceRef:  in.WorkplaceRef,
		WorkplaceName: in.WorkplaceName,
		RoleRef:       in.RoleRef,
		RoleName:      in.RoleName,
		HourlyWage:    SanitizeMoney(in.Defaults.HourlyWage),
		BreakMinutes:  ClampBreakMinutes(in.Defaults.BreakMinutes),
		UnpaidBreak:   in.Defaults.UnpaidBreak,
		Note:          in.Note,
	}

	if err := pl.punches.Set(ctx, punch); err != nil {
		return nil, &PersistenceError{Op: "punch.start", Err: err}
	}

	pl.notifier.publish(PunchEvent{Kind: PunchStarted, Punch: &punch})
	return &punch, nil
}

// =============================================================================
// STOP - Active -> Idle, producing a Shift
// =============================================================================

// StopInput carries the punch-out form: tips entered at the end of the
// shift and an optional note replacing the punch's note.
type StopInput struct {
	CashTips   decimal.Decimal
	CreditTips decimal.Decimal
	Note       *string
}

// Stop finalizes the active punch at the current clock time. Returns
// ErrNoActivePunch when Idle (including when a racing finalizer just
// cleared the slot - that is a no-op outcome, not corruption).
func (pl *PunchLifecycle) Stop(ctx context.Context, in StopInput) (*Shift, error) {
	punch, err := pl.punches.Get(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "punch.stop", Err: err}
	}
	if punch == nil {
		return nil, ErrNoActivePunch
	}

	end := pl.clock.Now()
	if !end.After(punch.StartedAt) {
		return nil, &ValidationError{Field: "endTime", Message: "punch-out must be after punch-in"}
	}

	note := punch.Note
	if in.Note != nil {
		note = *in.Note
	}

	s, err := pl.finalize(ctx, punch, end, SanitizeMoney(in.CashTips), SanitizeMoney(in.CreditTips), note, false)
	if err != nil {
		return nil, err
	}

	pl.notifier.publish(PunchEvent{Kind: PunchStopped, Shift: s})
	return s, nil
}

// =============================================================================
// AUTO-CLOSE - The 14-hour safety net
// =============================================================================

// AutoCloseResult reports whether CheckAutoClose finalized anything.
type AutoCloseResult struct {
	Closed bool
	Shift  *Shift
}

// CheckAutoClose is idempotent and safe to call on every app foreground
// or focus event. Under the cap, or when Idle, it is a no-op. At or
// over the cap it finalizes the punch at exactly startedAt + 14h with
// zero tips and the auto-close note marker.
func (pl *PunchLifecycle) CheckAutoClose(ctx context.Context) (AutoCloseResult, error) {
	punch, err := pl.punches.Get(ctx)
	if err != nil {
		return AutoCloseResult{}, &PersistenceError{Op: "punch.autoclose", Err: err}
	}
	if punch == nil {
		return AutoCloseResult{}, nil
	}
	if pl.clock.Now().Sub(punch.StartedAt) < autoCloseCap {
		return AutoCloseResult{}, nil
	}

	end := punch.StartedAt.Add(autoCloseCap)
	note := punch.Note
	if note == "" {
		note = AutoCloseNote
	} else {
		note = note + " " + AutoCloseNote
	}

	s, err := pl.finalize(ctx, punch, end, decimal.Zero, decimal.Zero, note, true)
	if err != nil {
		return AutoCloseResult{}, err
	}

	pl.notifier.publish(PunchEvent{Kind: PunchAutoClosed, Shift: s})
	return AutoCloseResult{Closed: true, Shift: s}, nil
}

// =============================================================================
// CANCEL - Active -> Idle, discarding the punch
// =============================================================================

// Cancel discards the active punch without producing a Shift. This is
// deliberate data loss for correcting a mistaken punch-in; the UI must
// confirm before calling it.
func (pl *PunchLifecycle) Cancel(ctx context.Context) error {
	punch, err := pl.punches.Get(ctx)
	if err != nil {
		return &PersistenceError{Op: "punch.cancel", Err: err}
	}
	if punch == nil {
		return ErrNoActivePunch
	}
	if err := pl.punches.Clear(ctx); err != nil {
		return &PersistenceError{Op: "punch.cancel", Err: err}
	}
	pl.notifier.publish(PunchEvent{Kind: PunchCanceled, Punch: punch})
	return nil
}

// =============================================================================
// EDIT - Explicit user edit of an active punch's locked fields
// =============================================================================

// PunchEdits are the only sanctioned way to change a punch's locked
// wage/break/unpaid values after Start. Nil fields are left unchanged.
type PunchEdits struct {
	HourlyWage   *decimal.Decimal
	BreakMinutes *int
	UnpaidBreak  *bool
	Note         *string
}

// EditActive applies explicit edits to the active punch before
// punch-out. Returns ErrNoActivePunch when Idle.
func (pl *PunchLifecycle) EditActive(ctx context.Context, edits PunchEdits) (*ActivePunch, error) {
	punch, err := pl.punches.Get(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "punch.edit", Err: err}
	}
	if punch == nil {
		return nil, ErrNoActivePunch
	}

	if edits.HourlyWage != nil {
		punch.HourlyWage = SanitizeMoney(*edits.HourlyWage)
	}
	if edits.BreakMinutes != nil {
		punch.BreakMinutes = ClampBreakMinutes(*edits.BreakMinutes)
	}
	if edits.UnpaidBreak != nil {
		punch.UnpaidBreak = *edits.UnpaidBreak
	}
	if edits.Note != nil {
		punch.Note = *edits.Note
	}

	if err := pl.punches.Set(ctx, *punch); err != nil {
		return nil, &PersistenceError{Op: "punch.edit", Err: err}
	}

	pl.notifier.publish(PunchEvent{Kind: PunchEdited, Punch: punch})
	return punch, nil
}

// =============================================================================
// FINALIZATION - Shared by Stop and CheckAutoClose
// =============================================================================

// finalize converts a punch into a stored Shift and clears the slot.
// The shift is appended before the slot is cleared: a failed clear
// leaves the punch in place and surfaces the error so the caller can
// retry. The shift id is derived from the punch id, so the retried
// append collides (ErrDuplicateShift) instead of recording the shift
// twice; on collision the already-stored record wins and is returned,
// since a retry runs at a later clock time and would otherwise hand
// the caller values the store does not contain.
func (pl *PunchLifecycle) finalize(ctx context.Context, punch *ActivePunch, end time.Time, cashTips, creditTips decimal.Decimal, note string, autoClosed bool) (*Shift, error) {
	raw := MinutesBetween(punch.StartedAt, end)
	net := DeductBreak(raw, punch.UnpaidBreak, punch.BreakMinutes)
	pay := ComputePay(net, punch.HourlyWage, cashTips, creditTips)

	s := Shift{
		// Derive the shift id from the punch id so retried finalizations
		// of the same punch collide in the store instead of duplicating.
		ID:                  ShiftID(punch.ID),
		LocalDate:           LocalDateOf(punch.StartedAt, pl.loc),
		StartTime:           punch.StartedAt,
		EndTime:             end,
		WorkplaceRef:        punch.WorkplaceRef,
		WorkplaceName:       punch.WorkplaceName,
		RoleRef:             punch.RoleRef,
		RoleName:            punch.RoleName,
		UnpaidBreakApplied:  punch.UnpaidBreak,
		BreakMinutesApplied: punch.BreakMinutes,
		HourlyWage:          punch.HourlyWage,
		CashTips:            cashTips,
		CreditTips:          creditTips,
		WorkedMinutes:       net,
		WorkedHours:         pay.WorkedHours,
		HourlyPay:           pay.HourlyPay,
		TotalTips:           pay.TotalTips,
		TotalEarned:         pay.TotalEarned,
		Note:                note,
		AutoClosed:          autoClosed,
	}

	if err := pl.shifts.Append(ctx, s); err != nil {
		if !errors.Is(err, ErrDuplicateShift) {
			return nil, &PersistenceError{Op: "shift.append", Err: err}
		}
		stored, err := pl.shifts.Get(ctx, s.ID)
		if err != nil {
			return nil, &PersistenceError{Op: "shift.append", Err: err}
		}
		s = stored
	}
	if err := pl.punches.Clear(ctx); err != nil {
		return nil, &PersistenceError{Op: "punch.clear", Err: err}
	}
	return &s, nil
}
