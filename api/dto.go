/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes exchanged with the UI layer, plus decode/validate/respond
  helpers shared by all handlers. Input sanitization lives here, at the
  edge: wages/tips floored at zero, break minutes clamped to [0, 240],
  timestamps parsed as RFC 3339.

VALIDATION:
  Structural validation uses go-playground/validator tags; a failed
  validation maps to 400 with the offending field named. Domain
  validation (positive duration etc.) happens in the shift package and
  maps through the same error writer.

SEE ALSO:
  - handlers.go: Uses these types
  - shift/errors.go: The error taxonomy mapped onto status codes
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/clockwise/shift-engine/shift"
)

var validate = validator.New()

// =============================================================================
// PUNCH REQUESTS
// =============================================================================

// PunchStartRequest is the punch-in form. The wage/break/unpaid fields
// are optional overrides of the resolved defaults; when absent, the
// Role > Workplace > Profile resolution fills them.
type PunchStartRequest struct {
	WorkplaceID  string           `json:"workplace_id" validate:"required"`
	RoleID       *string          `json:"role_id,omitempty"`
	HourlyWage   *decimal.Decimal `json:"hourly_wage,omitempty"`
	BreakMinutes *int             `json:"break_minutes,omitempty"`
	UnpaidBreak  *bool            `json:"unpaid_break,omitempty"`
	Note         string           `json:"note,omitempty"`
}

type PunchStopRequest struct {
	CashTips   decimal.Decimal `json:"cash_tips"`
	CreditTips decimal.Decimal `json:"credit_tips"`
	Note       *string         `json:"note,omitempty"`
}

type PunchEditRequest struct {
	HourlyWage   *decimal.Decimal `json:"hourly_wage,omitempty"`
	BreakMinutes *int             `json:"break_minutes,omitempty"`
	UnpaidBreak  *bool            `json:"unpaid_break,omitempty"`
	Note         *string          `json:"note,omitempty"`
}

// =============================================================================
// SHIFT REQUESTS
// =============================================================================

// ShiftCreateRequest is the manual add-shift form. Times are RFC 3339;
// the end time is overnight-normalized against the start server-side.
type ShiftCreateRequest struct {
	StartTime    string          `json:"start_time" validate:"required"`
	EndTime      string          `json:"end_time" validate:"required"`
	WorkplaceID  *string         `json:"workplace_id,omitempty"`
	RoleID       *string         `json:"role_id,omitempty"`
	HourlyWage   decimal.Decimal `json:"hourly_wage"`
	UnpaidBreak  bool            `json:"unpaid_break"`
	BreakMinutes int             `json:"break_minutes"`
	CashTips     decimal.Decimal `json:"cash_tips"`
	CreditTips   decimal.Decimal `json:"credit_tips"`
	Note         string          `json:"note,omitempty"`
}

type ShiftUpdateRequest struct {
	StartTime    *string          `json:"start_time,omitempty"`
	EndTime      *string          `json:"end_time,omitempty"`
	HourlyWage   *decimal.Decimal `json:"hourly_wage,omitempty"`
	UnpaidBreak  *bool            `json:"unpaid_break,omitempty"`
	BreakMinutes *int             `json:"break_minutes,omitempty"`
	CashTips     *decimal.Decimal `json:"cash_tips,omitempty"`
	CreditTips   *decimal.Decimal `json:"credit_tips,omitempty"`
	Note         *string          `json:"note,omitempty"`
}

// =============================================================================
// WORKPLACE / ROLE / PROFILE REQUESTS
// =============================================================================

type WorkplaceRequest struct {
	Name                string           `json:"name" validate:"required"`
	DefaultHourlyWage   *decimal.Decimal `json:"default_hourly_wage,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	DefaultUnpaidBreak  *bool            `json:"default_unpaid_break,omitempty"`
}

type RoleRequest struct {
	Name                string           `json:"name" validate:"required"`
	DefaultHourlyWage   *decimal.Decimal `json:"default_hourly_wage,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	DefaultUnpaidBreak  *bool            `json:"default_unpaid_break,omitempty"`
}

type ProfileRequest struct {
	Name                string           `json:"name"`
	DefaultHourlyWage   *decimal.Decimal `json:"default_hourly_wage,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	DefaultUnpaidBreak  *bool            `json:"default_unpaid_break,omitempty"`
}

// =============================================================================
// RESPONSE DTOS
// =============================================================================

type PunchDTO struct {
	ID            string          `json:"id"`
	StartedAt     string          `json:"started_at"`
	WorkplaceID   *string         `json:"workplace_id,omitempty"`
	WorkplaceName string          `json:"workplace_name"`
	RoleID        *string         `json:"role_id,omitempty"`
	RoleName      string          `json:"role_name"`
	HourlyWage    decimal.Decimal `json:"hourly_wage"`
	BreakMinutes  int             `json:"break_minutes"`
	UnpaidBreak   bool            `json:"unpaid_break"`
	Note          string          `json:"note,omitempty"`
}

type ShiftDTO struct {
	ID            string          `json:"id"`
	LocalDate     string          `json:"local_date"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	WorkplaceID   *string         `json:"workplace_id,omitempty"`
	WorkplaceName string          `json:"workplace_name"`
	RoleID        *string         `json:"role_id,omitempty"`
	RoleName      string          `json:"role_name"`
	UnpaidBreak   bool            `json:"unpaid_break"`
	BreakMinutes  int             `json:"break_minutes"`
	HourlyWage    decimal.Decimal `json:"hourly_wage"`
	CashTips      decimal.Decimal `json:"cash_tips"`
	CreditTips    decimal.Decimal `json:"credit_tips"`
	WorkedMinutes int             `json:"worked_minutes"`
	WorkedHours   decimal.Decimal `json:"worked_hours"`
	HourlyPay     decimal.Decimal `json:"hourly_pay"`
	TotalTips     decimal.Decimal `json:"total_tips"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
	Note          string          `json:"note,omitempty"`
	AutoClosed    bool            `json:"auto_closed"`
}

type DefaultsDTO struct {
	HourlyWage   decimal.Decimal `json:"hourly_wage"`
	BreakMinutes int             `json:"break_minutes"`
	UnpaidBreak  bool            `json:"unpaid_break"`
}

type WorkplaceDTO struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	DefaultHourlyWage   *decimal.Decimal `json:"default_hourly_wage,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	DefaultUnpaidBreak  *bool            `json:"default_unpaid_break,omitempty"`
}

type RoleDTO WorkplaceDTO

type ProfileDTO struct {
	Name                string           `json:"name"`
	DefaultHourlyWage   *decimal.Decimal `json:"default_hourly_wage,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	DefaultUnpaidBreak  *bool            `json:"default_unpaid_break,omitempty"`
}

type AutoCloseDTO struct {
	Closed bool      `json:"closed"`
	Shift  *ShiftDTO `json:"shift,omitempty"`
}

// BackupDTO is the opaque export blob: a point-in-time snapshot of the
// whole dataset. The engine never interprets it; restore replaces the
// dataset wholesale.
type BackupDTO struct {
	ExportedAt string         `json:"exported_at"`
	Shifts     []ShiftDTO     `json:"shifts"`
	Punch      *PunchDTO      `json:"active_punch,omitempty"`
	Workplaces []WorkplaceDTO `json:"workplaces"`
	Roles      []RoleDTO      `json:"roles"`
	Profile    ProfileDTO     `json:"profile"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPunchDTO(p *shift.ActivePunch) *PunchDTO {
	if p == nil {
		return nil
	}
	dto := &PunchDTO{
		ID:            string(p.ID),
		StartedAt:     p.StartedAt.Format(time.RFC3339Nano),
		WorkplaceName: p.WorkplaceName,
		RoleName:      p.RoleName,
		HourlyWage:    p.HourlyWage,
		BreakMinutes:  p.BreakMinutes,
		UnpaidBreak:   p.UnpaidBreak,
		Note:          p.Note,
	}
	if p.WorkplaceRef != nil {
		v := string(*p.WorkplaceRef)
		dto.WorkplaceID = &v
	}
	if p.RoleRef != nil {
		v := string(*p.RoleRef)
		dto.RoleID = &v
	}
	return dto
}

func toShiftDTO(s shift.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:            string(s.ID),
		LocalDate:     s.LocalDate.String(),
		StartTime:     s.StartTime.Format(time.RFC3339Nano),
		EndTime:       s.EndTime.Format(time.RFC3339Nano),
		WorkplaceName: s.WorkplaceName,
		RoleName:      s.RoleName,
		UnpaidBreak:   s.UnpaidBreakApplied,
		BreakMinutes:  s.BreakMinutesApplied,
		HourlyWage:    s.HourlyWage,
		CashTips:      s.CashTips,
		CreditTips:    s.CreditTips,
		WorkedMinutes: s.WorkedMinutes,
		WorkedHours:   s.WorkedHours,
		HourlyPay:     s.HourlyPay,
		TotalTips:     s.TotalTips,
		TotalEarned:   s.TotalEarned,
		Note:          s.Note,
		AutoClosed:    s.AutoClosed,
	}
	if s.WorkplaceRef != nil {
		v := string(*s.WorkplaceRef)
		dto.WorkplaceID = &v
	}
	if s.RoleRef != nil {
		v := string(*s.RoleRef)
		dto.RoleID = &v
	}
	return dto
}

func toWorkplaceDTO(w shift.Workplace) WorkplaceDTO {
	return WorkplaceDTO{
		ID:                  string(w.ID),
		Name:                w.Name,
		DefaultHourlyWage:   w.DefaultHourlyWage,
		DefaultBreakMinutes: w.DefaultBreakMinutes,
		DefaultUnpaidBreak:  w.DefaultUnpaidBreak,
	}
}

func toRoleDTO(r shift.Role) RoleDTO {
	return RoleDTO{
		ID:                  string(r.ID),
		Name:                r.Name,
		DefaultHourlyWage:   r.DefaultHourlyWage,
		DefaultBreakMinutes: r.DefaultBreakMinutes,
		DefaultUnpaidBreak:  r.DefaultUnpaidBreak,
	}
}

func toProfileDTO(p shift.Profile) ProfileDTO {
	return ProfileDTO{
		Name:                p.Name,
		DefaultHourlyWage:   p.DefaultHourlyWage,
		DefaultBreakMinutes: p.DefaultBreakMinutes,
		DefaultUnpaidBreak:  p.DefaultUnpaidBreak,
	}
}

// =============================================================================
// DECODE / RESPOND HELPERS
// =============================================================================

// decodeAndValidate parses the JSON body into dst and runs the
// validator tags. Returns false after writing the 400 response itself.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		if t, err2 := time.Parse(time.RFC3339, value); err2 == nil {
			return t, nil
		}
		return time.Time{}, &shift.ValidationError{Field: field, Message: "must be an RFC 3339 timestamp"}
	}
	return t, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the shift error taxonomy onto HTTP statuses:
// conflict 409, validation 400, not-found 404, anything else 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case shift.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, shift.ErrNoActivePunch):
		writeError(w, http.StatusConflict, "No active punch", err)
	case shift.IsNotFound(err):
		writeError(w, http.StatusNotFound, "No longer exists", err)
	case shift.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// requireConfirm gates destructive endpoints behind ?confirm=true.
func requireConfirm(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "Destructive action requires confirm=true",
			fmt.Errorf("missing confirmation"))
		return false
	}
	return true
}
