/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes the engine to the UI layer over REST. Handles HTTP
  request/response, JSON (de)serialization and input sanitization, and
  delegates every decision to the shift package.

ENDPOINTS:
  Punch lifecycle:
    GET    /api/punch             Current active punch (204 when idle)
    POST   /api/punch/start       Punch in
    POST   /api/punch/stop        Punch out (tips entered here)
    POST   /api/punch/cancel      Discard the active punch (confirm=true)
    POST   /api/punch/check       Auto-close tick (app foreground/focus)
    PATCH  /api/punch             Edit the active punch's locked fields

  Shifts (manual entry and edits):
    GET    /api/shifts            List all shifts
    POST   /api/shifts            Manual shift entry
    GET    /api/shifts/{id}       One shift
    PUT    /api/shifts/{id}       Edit (recomputes all derived fields)
    DELETE /api/shifts/{id}       Delete (confirm=true)

  Defaults and settings:
    GET    /api/defaults          Resolve Role > Workplace > Profile
    CRUD   /api/workplaces, /api/roles; GET/PUT /api/profile

  Views and backup:
    GET    /api/summary           Day/week/month buckets
    GET    /api/backup            Opaque export blob
    POST   /api/restore           Wholesale replace (confirm=true)

ERROR HANDLING:
  shift error taxonomy -> status codes via writeEngineError:
  400 validation, 404 not found, 409 conflict, 500 persistence/internal.

SEE ALSO:
  - dto.go: Request/response shapes and helpers
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/clockwise/shift-engine/shift"
	"github.com/clockwise/shift-engine/summary"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Everything is an
// interface so tests run against the in-memory stores.
type Handler struct {
	Lifecycle  *shift.PunchLifecycle
	Shifts     shift.ShiftStore
	Punches    shift.ActivePunchStore
	Workplaces shift.WorkplaceStore
	Roles      shift.RoleStore
	Profile    shift.ProfileStore

	Loc *time.Location

	log *logrus.Logger
}

// NewHandler wires the handler. A nil loc means time.Local; a nil
// logger gets a default text logger.
func NewHandler(lc *shift.PunchLifecycle, shifts shift.ShiftStore, punches shift.ActivePunchStore,
	workplaces shift.WorkplaceStore, roles shift.RoleStore, profile shift.ProfileStore,
	loc *time.Location, log *logrus.Logger) *Handler {

	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Handler{
		Lifecycle:  lc,
		Shifts:     shifts,
		Punches:    punches,
		Workplaces: workplaces,
		Roles:      roles,
		Profile:    profile,
		Loc:        loc,
		log:        log,
	}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// GetPunch returns the active punch, or 204 when idle.
func (h *Handler) GetPunch(w http.ResponseWriter, r *http.Request) {
	punch, err := h.Lifecycle.Active(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if punch == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toPunchDTO(punch))
}

// StartPunch punches in. Defaults resolve Role > Workplace > Profile,
// then any explicit overrides from the form are applied on top.
func (h *Handler) StartPunch(w http.ResponseWriter, r *http.Request) {
	var req PunchStartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	workplace, err := h.Workplaces.GetWorkplace(ctx, shift.WorkplaceID(req.WorkplaceID))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var role *shift.Role
	if req.RoleID != nil {
		if role, err = h.Roles.GetRole(ctx, shift.RoleID(*req.RoleID)); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	profile, err := h.Profile.GetProfile(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	defaults := shift.ResolveDefaults(profile, workplace, role)
	if req.HourlyWage != nil {
		defaults.HourlyWage = *req.HourlyWage
	}
	if req.BreakMinutes != nil {
		defaults.BreakMinutes = *req.BreakMinutes
	}
	if req.UnpaidBreak != nil {
		defaults.UnpaidBreak = *req.UnpaidBreak
	}

	in := shift.StartInput{
		WorkplaceRef:  &workplace.ID,
		WorkplaceName: workplace.Name,
		Defaults:      defaults,
		Note:          req.Note,
	}
	if role != nil {
		in.RoleRef = &role.ID
		in.RoleName = role.Name
	}

	punch, err := h.Lifecycle.Start(ctx, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"punch_id":  punch.ID,
		"workplace": punch.WorkplaceName,
		"wage":      punch.HourlyWage,
	}).Info("punch started")
	writeJSON(w, http.StatusCreated, toPunchDTO(punch))
}

// StopPunch punches out and returns the finalized shift.
func (h *Handler) StopPunch(w http.ResponseWriter, r *http.Request) {
	var req PunchStopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s, err := h.Lifecycle.Stop(r.Context(), shift.StopInput{
		CashTips:   req.CashTips,
		CreditTips: req.CreditTips,
		Note:       req.Note,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"shift_id":       s.ID,
		"worked_minutes": s.WorkedMinutes,
		"total_earned":   s.TotalEarned,
	}).Info("punch stopped")
	writeJSON(w, http.StatusOK, toShiftDTO(*s))
}

// CancelPunch discards the active punch. Deliberate data loss, so the
// confirmation gate applies.
func (h *Handler) CancelPunch(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := h.Lifecycle.Cancel(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	h.log.Info("punch canceled")
	w.WriteHeader(http.StatusNoContent)
}

// CheckPunch runs the auto-close check. The UI calls this on every
// foreground/focus event; it is idempotent.
func (h *Handler) CheckPunch(w http.ResponseWriter, r *http.Request) {
	result, err := h.Lifecycle.CheckAutoClose(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dto := AutoCloseDTO{Closed: result.Closed}
	if result.Shift != nil {
		s := toShiftDTO(*result.Shift)
		dto.Shift = &s
		h.log.WithFields(logrus.Fields{
			"shift_id": result.Shift.ID,
			"end_time": result.Shift.EndTime,
		}).Warn("punch auto-closed")
	}
	writeJSON(w, http.StatusOK, dto)
}

// EditPunch applies explicit edits to the active punch's locked fields.
func (h *Handler) EditPunch(w http.ResponseWriter, r *http.Request) {
	var req PunchEditRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	punch, err := h.Lifecycle.EditActive(r.Context(), shift.PunchEdits{
		HourlyWage:   req.HourlyWage,
		BreakMinutes: req.BreakMinutes,
		UnpaidBreak:  req.UnpaidBreak,
		Note:         req.Note,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPunchDTO(punch))
}

// =============================================================================
// SHIFT HANDLERS - Manual entry, edit, delete
// =============================================================================

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Shifts.List(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.Shifts.Get(r.Context(), shift.ShiftID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// CreateShift is the manual-entry path, bypassing the punch flow but
// holding the same invariants: overnight normalization, break clamping,
// positive duration, derived fields stored at creation.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	start, err := parseTime("start_time", req.StartTime)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	end, err := parseTime("end_time", req.EndTime)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	in := shift.ManualShiftInput{
		StartTime:    start,
		EndTime:      end,
		HourlyWage:   req.HourlyWage,
		UnpaidBreak:  req.UnpaidBreak,
		BreakMinutes: req.BreakMinutes,
		CashTips:     req.CashTips,
		CreditTips:   req.CreditTips,
		Note:         req.Note,
	}

	// Name snapshots are captured here, at creation time.
	if req.WorkplaceID != nil {
		workplace, err := h.Workplaces.GetWorkplace(ctx, shift.WorkplaceID(*req.WorkplaceID))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		in.WorkplaceRef = &workplace.ID
		in.WorkplaceName = workplace.Name
	}
	if req.RoleID != nil {
		role, err := h.Roles.GetRole(ctx, shift.RoleID(*req.RoleID))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		in.RoleRef = &role.ID
		in.RoleName = role.Name
	}

	s, err := shift.NewManualShift(in, h.Loc)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Shifts.Append(ctx, *s); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(*s))
}

// UpdateShift edits a stored shift. ApplyShiftEdit recomputes every
// derived field from the edited sources before the row is written back.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	current, err := h.Shifts.Get(ctx, shift.ShiftID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	edits := shift.ShiftEdits{
		HourlyWage:   req.HourlyWage,
		UnpaidBreak:  req.UnpaidBreak,
		BreakMinutes: req.BreakMinutes,
		CashTips:     req.CashTips,
		CreditTips:   req.CreditTips,
		Note:         req.Note,
	}
	if req.StartTime != nil {
		t, err := parseTime("start_time", *req.StartTime)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		edits.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseTime("end_time", *req.EndTime)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		edits.EndTime = &t
	}

	updated, err := shift.ApplyShiftEdit(current, edits, h.Loc)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Shifts.Update(ctx, *updated); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(*updated))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := h.Shifts.Remove(r.Context(), shift.ShiftID(chi.URLParam(r, "id"))); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DEFAULTS HANDLER - Form pre-fill resolution
// =============================================================================

// GetDefaults resolves the wage/break/unpaid triple for the currently
// selected workplace/role. The UI re-requests this whenever a selection
// changes and overwrites the form fields with the result - including
// any values the user typed since the last resolution.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var workplace *shift.Workplace
	if id := r.URL.Query().Get("workplace_id"); id != "" {
		var err error
		if workplace, err = h.Workplaces.GetWorkplace(ctx, shift.WorkplaceID(id)); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	var role *shift.Role
	if id := r.URL.Query().Get("role_id"); id != "" {
		var err error
		if role, err = h.Roles.GetRole(ctx, shift.RoleID(id)); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	profile, err := h.Profile.GetProfile(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	d := shift.ResolveDefaults(profile, workplace, role)
	writeJSON(w, http.StatusOK, DefaultsDTO{
		HourlyWage:   d.HourlyWage,
		BreakMinutes: d.BreakMinutes,
		UnpaidBreak:  d.UnpaidBreak,
	})
}

// =============================================================================
// WORKPLACE / ROLE / PROFILE HANDLERS
// =============================================================================

func (h *Handler) ListWorkplaces(w http.ResponseWriter, r *http.Request) {
	workplaces, err := h.Workplaces.ListWorkplaces(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]WorkplaceDTO, len(workplaces))
	for i, wp := range workplaces {
		dtos[i] = toWorkplaceDTO(wp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateWorkplace(w http.ResponseWriter, r *http.Request) {
	var req WorkplaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	wp := shift.Workplace{
		ID:                  shift.NewWorkplaceID(),
		Name:                req.Name,
		DefaultHourlyWage:   req.DefaultHourlyWage,
		DefaultBreakMinutes: clampOptBreak(req.DefaultBreakMinutes),
		DefaultUnpaidBreak:  req.DefaultUnpaidBreak,
	}
	if err := h.Workplaces.SaveWorkplace(r.Context(), wp); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkplaceDTO(wp))
}

// UpdateWorkplace renames or re-defaults a workplace. Existing shifts
// keep their name snapshots; history is never rewritten.
func (h *Handler) UpdateWorkplace(w http.ResponseWriter, r *http.Request) {
	var req WorkplaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	id := shift.WorkplaceID(chi.URLParam(r, "id"))

	if _, err := h.Workplaces.GetWorkplace(ctx, id); err != nil {
		writeEngineError(w, err)
		return
	}
	wp := shift.Workplace{
		ID:                  id,
		Name:                req.Name,
		DefaultHourlyWage:   req.DefaultHourlyWage,
		DefaultBreakMinutes: clampOptBreak(req.DefaultBreakMinutes),
		DefaultUnpaidBreak:  req.DefaultUnpaidBreak,
	}
	if err := h.Workplaces.SaveWorkplace(ctx, wp); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkplaceDTO(wp))
}

func (h *Handler) DeleteWorkplace(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := h.Workplaces.DeleteWorkplace(r.Context(), shift.WorkplaceID(chi.URLParam(r, "id"))); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.ListRoles(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = toRoleDTO(role)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	role := shift.Role{
		ID:                  shift.NewRoleID(),
		Name:                req.Name,
		DefaultHourlyWage:   req.DefaultHourlyWage,
		DefaultBreakMinutes: clampOptBreak(req.DefaultBreakMinutes),
		DefaultUnpaidBreak:  req.DefaultUnpaidBreak,
	}
	if err := h.Roles.SaveRole(r.Context(), role); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoleDTO(role))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	id := shift.RoleID(chi.URLParam(r, "id"))

	if _, err := h.Roles.GetRole(ctx, id); err != nil {
		writeEngineError(w, err)
		return
	}
	role := shift.Role{
		ID:                  id,
		Name:                req.Name,
		DefaultHourlyWage:   req.DefaultHourlyWage,
		DefaultBreakMinutes: clampOptBreak(req.DefaultBreakMinutes),
		DefaultUnpaidBreak:  req.DefaultUnpaidBreak,
	}
	if err := h.Roles.SaveRole(ctx, role); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoleDTO(role))
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := h.Roles.DeleteRole(r.Context(), shift.RoleID(chi.URLParam(r, "id"))); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profile.GetProfile(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p := shift.Profile{
		Name:                req.Name,
		DefaultHourlyWage:   req.DefaultHourlyWage,
		DefaultBreakMinutes: clampOptBreak(req.DefaultBreakMinutes),
		DefaultUnpaidBreak:  req.DefaultUnpaidBreak,
	}
	if err := h.Profile.SaveProfile(r.Context(), p); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(p))
}

func clampOptBreak(p *int) *int {
	if p == nil {
		return nil
	}
	v := shift.ClampBreakMinutes(*p)
	return &v
}

// =============================================================================
// SUMMARY HANDLER
// =============================================================================

// GetSummary buckets shifts into day/week/month totals over an
// optional [from, to] local-date range.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Shifts.List(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	g := summary.Granularity(r.URL.Query().Get("granularity"))
	switch g {
	case summary.ByDay, summary.ByWeek, summary.ByMonth:
	case "":
		g = summary.ByDay
	default:
		writeError(w, http.StatusBadRequest, "granularity must be day, week or month", nil)
		return
	}

	var from, to shift.LocalDate
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = shift.ParseLocalDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = shift.ParseLocalDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
	}

	buckets := summary.Bucketize(summary.FilterRange(shifts, from, to), g)
	writeJSON(w, http.StatusOK, buckets)
}

// =============================================================================
// BACKUP / RESTORE HANDLERS
// =============================================================================

// Backup exports the whole dataset as one blob.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shifts, err := h.Shifts.List(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	punch, err := h.Punches.Get(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	workplaces, err := h.Workplaces.ListWorkplaces(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	roles, err := h.Roles.ListRoles(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	profile, err := h.Profile.GetProfile(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	blob := BackupDTO{
		ExportedAt: time.Now().Format(time.RFC3339),
		Shifts:     make([]ShiftDTO, len(shifts)),
		Punch:      toPunchDTO(punch),
		Workplaces: make([]WorkplaceDTO, len(workplaces)),
		Roles:      make([]RoleDTO, len(roles)),
		Profile:    toProfileDTO(profile),
	}
	for i, s := range shifts {
		blob.Shifts[i] = toShiftDTO(s)
	}
	for i, wp := range workplaces {
		blob.Workplaces[i] = toWorkplaceDTO(wp)
	}
	for i, role := range roles {
		blob.Roles[i] = toRoleDTO(role)
	}
	writeJSON(w, http.StatusOK, blob)
}

// Restore replaces the dataset wholesale with a previously exported
// blob. Destructive, so the confirmation gate applies.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	var blob BackupDTO
	if !decodeAndValidate(w, r, &blob) {
		return
	}
	ctx := r.Context()

	// Wipe current state through the same interfaces the engine uses.
	existing, err := h.Shifts.List(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	for _, s := range existing {
		if err := h.Shifts.Remove(ctx, s.ID); err != nil && !errors.Is(err, shift.ErrShiftNotFound) {
			writeEngineError(w, err)
			return
		}
	}
	workplaces, err := h.Workplaces.ListWorkplaces(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	for _, wp := range workplaces {
		if err := h.Workplaces.DeleteWorkplace(ctx, wp.ID); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	roles, err := h.Roles.ListRoles(ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	for _, role := range roles {
		if err := h.Roles.DeleteRole(ctx, role.ID); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if err := h.Punches.Clear(ctx); err != nil {
		writeEngineError(w, err)
		return
	}

	// Re-insert from the blob.
	for _, dto := range blob.Workplaces {
		wp := shift.Workplace{
			ID:                  shift.WorkplaceID(dto.ID),
			Name:                dto.Name,
			DefaultHourlyWage:   dto.DefaultHourlyWage,
			DefaultBreakMinutes: dto.DefaultBreakMinutes,
			DefaultUnpaidBreak:  dto.DefaultUnpaidBreak,
		}
		if err := h.Workplaces.SaveWorkplace(ctx, wp); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	for _, dto := range blob.Roles {
		role := shift.Role{
			ID:                  shift.RoleID(dto.ID),
			Name:                dto.Name,
			DefaultHourlyWage:   dto.DefaultHourlyWage,
			DefaultBreakMinutes: dto.DefaultBreakMinutes,
			DefaultUnpaidBreak:  dto.DefaultUnpaidBreak,
		}
		if err := h.Roles.SaveRole(ctx, role); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if err := h.Profile.SaveProfile(ctx, shift.Profile{
		Name:                blob.Profile.Name,
		DefaultHourlyWage:   blob.Profile.DefaultHourlyWage,
		DefaultBreakMinutes: blob.Profile.DefaultBreakMinutes,
		DefaultUnpaidBreak:  blob.Profile.DefaultUnpaidBreak,
	}); err != nil {
		writeEngineError(w, err)
		return
	}
	for _, dto := range blob.Shifts {
		s, err := shiftFromDTO(dto)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := h.Shifts.Append(ctx, s); err != nil && !errors.Is(err, shift.ErrDuplicateShift) {
			writeEngineError(w, err)
			return
		}
	}
	if blob.Punch != nil {
		p, err := punchFromDTO(*blob.Punch)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := h.Punches.Set(ctx, p); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	h.log.WithField("shifts", len(blob.Shifts)).Info("restore completed")
	w.WriteHeader(http.StatusNoContent)
}

// shiftFromDTO rebuilds a stored shift from an export blob, trusting
// the blob's stored derived fields (restore is a wholesale replace,
// not a recomputation).
func shiftFromDTO(dto ShiftDTO) (shift.Shift, error) {
	start, err := parseTime("start_time", dto.StartTime)
	if err != nil {
		return shift.Shift{}, err
	}
	end, err := parseTime("end_time", dto.EndTime)
	if err != nil {
		return shift.Shift{}, err
	}
	localDate, err := shift.ParseLocalDate(dto.LocalDate)
	if err != nil {
		return shift.Shift{}, &shift.ValidationError{Field: "local_date", Message: "must be YYYY-MM-DD"}
	}

	s := shift.Shift{
		ID:                  shift.ShiftID(dto.ID),
		LocalDate:           localDate,
		StartTime:           start,
		EndTime:             end,
		WorkplaceName:       dto.WorkplaceName,
		RoleName:            dto.RoleName,
		UnpaidBreakApplied:  dto.UnpaidBreak,
		BreakMinutesApplied: dto.BreakMinutes,
		HourlyWage:          dto.HourlyWage,
		CashTips:            dto.CashTips,
		CreditTips:          dto.CreditTips,
		WorkedMinutes:       dto.WorkedMinutes,
		WorkedHours:         dto.WorkedHours,
		HourlyPay:           dto.HourlyPay,
		TotalTips:           dto.TotalTips,
		TotalEarned:         dto.TotalEarned,
		Note:                dto.Note,
		AutoClosed:          dto.AutoClosed,
	}
	if dto.WorkplaceID != nil {
		v := shift.WorkplaceID(*dto.WorkplaceID)
		s.WorkplaceRef = &v
	}
	if dto.RoleID != nil {
		v := shift.RoleID(*dto.RoleID)
		s.RoleRef = &v
	}
	return s, nil
}

func punchFromDTO(dto PunchDTO) (shift.ActivePunch, error) {
	started, err := parseTime("started_at", dto.StartedAt)
	if err != nil {
		return shift.ActivePunch{}, err
	}
	p := shift.ActivePunch{
		ID:            shift.PunchID(dto.ID),
		StartedAt:     started,
		WorkplaceName: dto.WorkplaceName,
		RoleName:      dto.RoleName,
		HourlyWage:    dto.HourlyWage,
		BreakMinutes:  dto.BreakMinutes,
		UnpaidBreak:   dto.UnpaidBreak,
		Note:          dto.Note,
	}
	if dto.WorkplaceID != nil {
		v := shift.WorkplaceID(*dto.WorkplaceID)
		p.WorkplaceRef = &v
	}
	if dto.RoleID != nil {
		v := shift.RoleID(*dto.RoleID)
		p.RoleRef = &v
	}
	return p, nil
}
