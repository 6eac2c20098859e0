// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/progress"
	"github.com/campus-hub/score-encoding-hub/internal/domain/reference"
	"github.com/campus-hub/score-encoding-hub/internal/domain/scoresheet"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// The teacher's landing view: for every teaching unit they are attributed to,
// how far the score encoding has come, bucketed by due date.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressQuery contains the parameters of the progress lookup.
type GetProgressQuery struct {
	// TeacherID is the personnel number of the requesting teacher.
	TeacherID string

	// Year and Session select the period. Left zero, both are resolved from
	// the active submission window.
	Year    int
	Session int

	// UnitCode restricts the report to one teaching unit when set.
	UnitCode string
}

// Validate validates the query shape.
func (q GetProgressQuery) Validate() error {
	if _, err := shared.NewTeacherID(q.TeacherID); err != nil {
		return err
	}
	return nil
}

// GetProgressResult wraps the progress report with window context.
type GetProgressResult struct {
	// Report is the per-unit progression, units ordered by code.
	Report *progress.Report

	// WindowOpen reports whether the submission window is currently open for
	// the resolved year/session.
	WindowOpen bool
}

// GetProgressHandler handles the GetProgressQuery.
type GetProgressHandler struct {
	progressService *progress.Service
	window          *calendar.WindowCheck
	attributions    reference.AttributionTranslator
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(
	progressService *progress.Service,
	window *calendar.WindowCheck,
	attributions reference.AttributionTranslator,
) *GetProgressHandler {
	return &GetProgressHandler{
		progressService: progressService,
		window:          window,
		attributions:    attributions,
	}
}

// Handle executes the progress query. With no year/session given the active
// window decides the period; with no window configured either, the query fails
// with shared.ErrSubmissionWindowClosed since there is no period to report on.
func (h *GetProgressHandler) Handle(ctx context.Context, query GetProgressQuery) (*GetProgressResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetProgress", shared.ErrValidation, err.Error(), err)
	}
	teacherID := shared.TeacherID(query.TeacherID)

	year := shared.AcademicYear(query.Year)
	session := shared.SessionNumber(query.Session)
	if year == 0 || session == 0 {
		window, err := h.window.Current(ctx)
		if err != nil {
			return nil, err
		}
		if window.IsZero() {
			return nil, shared.ErrSubmissionWindowClosed
		}
		year, session = window.Year, window.Session
	}
	if !year.IsValid() {
		return nil, shared.ErrInvalidAcademicYear
	}
	if !session.IsValid() {
		return nil, shared.ErrInvalidSessionNumber
	}

	ids, err := h.sheetIdentities(ctx, teacherID, year, session, query.UnitCode)
	if err != nil {
		return nil, err
	}

	report, err := h.progressService.ForSheets(ctx, ids, year, session)
	if err != nil {
		return nil, err
	}

	result := &GetProgressResult{Report: report}
	if err := h.window.VerifyOpen(ctx, year, session); err == nil {
		result.WindowOpen = true
	}
	return result, nil
}

// sheetIdentities resolves the sheet identities the teacher may see: one per
// attributed unit, optionally narrowed to a single unit code.
func (h *GetProgressHandler) sheetIdentities(
	ctx context.Context,
	teacherID shared.TeacherID,
	year shared.AcademicYear,
	session shared.SessionNumber,
	unitCode string,
) ([]scoresheet.Identity, error) {
	attributions, err := h.attributions.SearchByTeacher(ctx, teacherID, year)
	if err != nil {
		return nil, err
	}

	var ids []scoresheet.Identity
	for _, a := range attributions {
		if unitCode != "" && a.UnitID.Code != unitCode {
			continue
		}
		ids = append(ids, scoresheet.Identity{
			Session:  session,
			UnitCode: a.UnitID.Code,
			Year:     a.UnitID.Year,
		})
	}
	return ids, nil
}
